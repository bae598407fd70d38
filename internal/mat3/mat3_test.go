package mat3

import (
	"math"
	"testing"
)

func TestMulVec(t *testing.T) {
	m := Mat{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 10},
	}
	v := Vec{1, -1, 2}

	got := m.MulVec(v)

	want := Vec{5, 11, 19}
	if got != want {
		t.Fatalf("MulVec = %v, want %v", got, want)
	}
}

func TestAddSub(t *testing.T) {
	m := Mat{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	}
	n := Mat{
		{9, 8, 7},
		{6, 5, 4},
		{3, 2, 1},
	}

	sum := m.Add(n)
	for i := range sum {
		for j := range sum[i] {
			if sum[i][j] != 10 {
				t.Fatalf("Add[%d][%d] = %g, want 10", i, j, sum[i][j])
			}
		}
	}

	if diff := sum.Sub(n); diff != m {
		t.Fatalf("Sub = %v, want %v", diff, m)
	}
}

func TestInverseRoundTrip(t *testing.T) {
	m := Mat{
		{2, -1, 0},
		{-1, 2, -1},
		{0, -1, 2},
	}

	inv, ok := m.Inverse()
	if !ok {
		t.Fatal("Inverse reported singular for a regular matrix")
	}

	// m * inv must be the identity.
	for col := range 3 {
		var e Vec
		e[col] = 1

		got := m.MulVec(inv.MulVec(e))
		for row := range 3 {
			want := 0.0
			if row == col {
				want = 1
			}

			if math.Abs(got[row]-want) > 1e-12 {
				t.Fatalf("(m*inv)e%d[%d] = %g, want %g", col, row, got[row], want)
			}
		}
	}
}

func TestInverseMatchesMNAShape(t *testing.T) {
	// The exact matrix shape the MNA engine inverts: conductance g,
	// companion conductance h, source constraint row/column.
	const (
		g = 1.0 / 4700.0
		h = 2 * 33e-9 * 48000
	)

	m := Mat{
		{g, -g, 1},
		{-g, g + h, 0},
		{1, 0, 0},
	}

	inv, ok := m.Inverse()
	if !ok {
		t.Fatal("Inverse reported singular for the MNA system matrix")
	}

	// Solving m*x = [0 0 1] must give x[1] = g/(g+h).
	x := inv.MulVec(Vec{0, 0, 1})

	want := g / (g + h)
	if math.Abs(x[1]-want) > 1e-15 {
		t.Fatalf("x[1] = %g, want %g", x[1], want)
	}

	if math.Abs(x[0]-1) > 1e-15 {
		t.Fatalf("x[0] = %g, want 1", x[0])
	}
}

func TestInverseSingular(t *testing.T) {
	m := Mat{
		{1, 2, 3},
		{2, 4, 6},
		{0, 1, 1},
	}

	if _, ok := m.Inverse(); ok {
		t.Fatal("Inverse accepted a singular matrix")
	}
}

func TestDet(t *testing.T) {
	m := Mat{
		{3, 0, 0},
		{0, 2, 0},
		{0, 0, 5},
	}

	if d := m.Det(); d != 30 {
		t.Fatalf("Det = %g, want 30", d)
	}
}
