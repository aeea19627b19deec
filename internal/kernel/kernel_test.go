package kernel

import (
	"errors"
	"testing"

	"github.com/go-zein/zein/internal/expr"
	"github.com/go-zein/zein/internal/shape"
)

func mustShape(t *testing.T, rank int, order shape.Order, sizes []shape.Size) shape.Shape {
	t.Helper()
	s, err := shape.New(rank, order, sizes)
	if err != nil {
		t.Fatalf("shape.New: %v", err)
	}
	return s
}

func TestSumProductMinMaxOnConstantArray(t *testing.T) {
	x := make([]int32, 100)
	for i := range x {
		x[i] = 3
	}

	if sum, err := Sum(x); err != nil || sum != 300 {
		t.Errorf("Sum = %d, %v; want 300, nil", sum, err)
	}
	one := []int32{1, 1, 1, 1}
	if prod, err := Product(one); err != nil || prod != 1 {
		t.Errorf("Product = %d, %v; want 1, nil", prod, err)
	}
	if mn, err := Min(x); err != nil || mn != 3 {
		t.Errorf("Min = %d, %v; want 3, nil", mn, err)
	}
	if mx, err := Max(x); err != nil || mx != 3 {
		t.Errorf("Max = %d, %v; want 3, nil", mx, err)
	}
}

func TestReduceEmptyFails(t *testing.T) {
	if _, err := Sum([]int32{}); !errors.Is(err, ErrSizeZeroTensor) {
		t.Errorf("err = %v, want ErrSizeZeroTensor", err)
	}
}

func TestAbsMaxAbsMinAreCanonical(t *testing.T) {
	x := []int32{-5, 2, -1, 4}
	if got, _ := AbsMax(x); got != 5 {
		t.Errorf("AbsMax = %d, want 5", got)
	}
	if got, _ := AbsMin(x); got != 1 {
		t.Errorf("AbsMin = %d, want 1", got)
	}
}

func TestElementwiseArithmetic(t *testing.T) {
	x := make([]int64, 100000)
	y := make([]int64, 100000)
	for i := range x {
		x[i] = 1
		y[i] = 2
	}
	z := make([]int64, 100000)

	if err := Add(x, y, z); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if sum, _ := Sum(z); sum != 300000 {
		t.Errorf("sum(add) = %d, want 300000", sum)
	}

	if err := Sub(x, y, z); err != nil {
		t.Fatalf("Sub: %v", err)
	}
	if sum, _ := Sum(z); sum != -100000 {
		t.Errorf("sum(sub) = %d, want -100000", sum)
	}
}

func TestScaleAndBias(t *testing.T) {
	x := make([]int64, 100000)
	for i := range x {
		x[i] = 1
	}
	y := make([]int64, 100000)

	if err := Bias(x, 4, y); err != nil {
		t.Fatalf("Bias: %v", err)
	}
	if sum, _ := Sum(y); sum != 500000 {
		t.Errorf("sum(bias) = %d, want 500000", sum)
	}

	if err := Scale(x, 4, y); err != nil {
		t.Fatalf("Scale: %v", err)
	}
	if sum, _ := Sum(y); sum != 400000 {
		t.Errorf("sum(scale) = %d, want 400000", sum)
	}
}

func TestUnequalSizeRejected(t *testing.T) {
	if err := Add([]int32{1, 2}, []int32{1}, make([]int32, 2)); !errors.Is(err, ErrUnequalSize) {
		t.Errorf("err = %v, want ErrUnequalSize", err)
	}
}

func TestCheckedAbsOverflow(t *testing.T) {
	if _, err := CheckedAbs(int32(-2147483648)); !errors.Is(err, ErrIntegerOverflow) {
		t.Errorf("err = %v, want ErrIntegerOverflow", err)
	}
	if got, err := CheckedAbs(int32(-5)); err != nil || got != 5 {
		t.Errorf("CheckedAbs(-5) = %d, %v; want 5, nil", got, err)
	}
}

func TestContractRowSum(t *testing.T) {
	x := mustShape(t, 3, shape.RowMajor, []shape.Size{3, 4, 3})
	xData := make([]int32, 36)
	for i := range xData {
		xData[i] = int32(i + 1)
	}
	z := mustShape(t, 2, shape.RowMajor, []shape.Size{3, 4})
	zData := make([]int32, 12)

	plan, err := expr.ParseContraction(3, 2, "ijk->ij")
	if err != nil {
		t.Fatalf("ParseContraction: %v", err)
	}
	if err := Contract(plan, x, xData, z, zData); err != nil {
		t.Fatalf("Contract: %v", err)
	}

	want := []int32{6, 15, 24, 33, 42, 51, 60, 69, 78, 87, 96, 105}
	for i, w := range want {
		if zData[i] != w {
			t.Errorf("zData[%d] = %d, want %d", i, zData[i], w)
		}
	}
}

func TestInnerProductOnesTimesMatrix(t *testing.T) {
	x := mustShape(t, 2, shape.RowMajor, []shape.Size{2, 2})
	xData := []int32{1, 1, 1, 1}
	y := mustShape(t, 2, shape.RowMajor, []shape.Size{2, 2})
	yData := []int32{1, 2, 3, 4}
	z := mustShape(t, 2, shape.RowMajor, []shape.Size{2, 2})
	zData := make([]int32, 4)

	plan, err := expr.ParseInnerProduct(2, 2, 2, "ij,jk->ik")
	if err != nil {
		t.Fatalf("ParseInnerProduct: %v", err)
	}
	if err := InnerProduct(plan, x, xData, y, yData, z, zData); err != nil {
		t.Fatalf("InnerProduct: %v", err)
	}
	want := []int32{4, 6, 4, 6}
	for i, w := range want {
		if zData[i] != w {
			t.Errorf("zData[%d] = %d, want %d", i, zData[i], w)
		}
	}
}

func TestInnerProductTransposedResult(t *testing.T) {
	x := mustShape(t, 2, shape.RowMajor, []shape.Size{2, 2})
	xData := []int32{1, 1, 1, 1}
	y := mustShape(t, 2, shape.RowMajor, []shape.Size{2, 2})
	yData := []int32{1, 2, 3, 4}
	z := mustShape(t, 2, shape.RowMajor, []shape.Size{2, 2})
	zData := make([]int32, 4)

	plan, err := expr.ParseInnerProduct(2, 2, 2, "ij,jk->ki")
	if err != nil {
		t.Fatalf("ParseInnerProduct: %v", err)
	}
	if err := InnerProduct(plan, x, xData, y, yData, z, zData); err != nil {
		t.Fatalf("InnerProduct: %v", err)
	}
	want := []int32{4, 4, 6, 6}
	for i, w := range want {
		if zData[i] != w {
			t.Errorf("zData[%d] = %d, want %d", i, zData[i], w)
		}
	}
}

func TestQuantizeUnquantizeRoundTrip(t *testing.T) {
	x := []float32{0.1, -0.5, 0.9, -1.0, 0.25}

	q := make([]int32, len(x))
	m, err := Quantize(x, q)
	if err != nil {
		t.Fatalf("Quantize: %v", err)
	}

	back := make([]float32, len(x))
	if err := Unquantize(q, back, m); err != nil {
		t.Fatalf("Unquantize: %v", err)
	}
	for i := range x {
		if diff := back[i] - x[i]; diff > 1e-3 || diff < -1e-3 {
			t.Errorf("round trip[%d] = %v, want ~%v", i, back[i], x[i])
		}
	}
}

func TestMapReduceSumOfSquares(t *testing.T) {
	x := []int32{1, 2, 3, 4}
	got, err := MapReduce(x, OpSum, func(v int32) int32 { return v * v })
	if err != nil {
		t.Fatalf("MapReduce: %v", err)
	}
	if got != 30 {
		t.Errorf("MapReduce sum-of-squares = %d, want 30", got)
	}
}

func TestSIMDChunkedMatchesScalarTail(t *testing.T) {
	for _, n := range []int{0, 1, 7, 8, 9, 64, 100, 257} {
		if n == 0 {
			continue
		}
		x := make([]float32, n)
		for i := range x {
			x[i] = float32(i%7) - 3
		}
		chunked, err := Sum(x)
		if err != nil {
			t.Fatalf("Sum: %v", err)
		}
		var scalar float32
		for _, v := range x {
			scalar += v
		}
		if chunked != scalar {
			t.Errorf("n=%d: chunked sum %v != scalar sum %v", n, chunked, scalar)
		}
	}
}
