package pagination

import "testing"

func TestTotalPages(t *testing.T) {
	tests := []struct {
		count, size, want int
	}{
		{count: 0, size: 10, want: 1},
		{count: 1, size: 10, want: 1},
		{count: 10, size: 10, want: 1},
		{count: 11, size: 10, want: 2},
		{count: 25, size: 10, want: 3},
		{count: 25, size: 0, want: 3},
		{count: -4, size: 10, want: 1},
		{count: 1000, size: 500, want: 10},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.count, tt.size); got != tt.want {
			t.Fatalf("TotalPages(%d, %d) = %d, want %d", tt.count, tt.size, got, tt.want)
		}
	}
}

func TestNextPrevStayInRange(t *testing.T) {
	total := 3
	page := 1
	for i := 0; i < 5; i++ {
		page = Next(page, total)
		if page < 1 || page > total {
			t.Fatalf("Next escaped range: %d", page)
		}
	}
	if page != 3 {
		t.Fatalf("expected to stop at last page, got %d", page)
	}
	for i := 0; i < 5; i++ {
		page = Prev(page, total)
		if page < 1 || page > total {
			t.Fatalf("Prev escaped range: %d", page)
		}
	}
	if page != 1 {
		t.Fatalf("expected to stop at first page, got %d", page)
	}
}

func TestNextTwicePrevOnce(t *testing.T) {
	total := TotalPages(25, 10)
	page := Next(Next(1, total), total)
	page = Prev(page, total)
	if page != 2 {
		t.Fatalf("expected page 2, got %d", page)
	}
}

func TestHasNextHasPrev(t *testing.T) {
	if HasPrev(1) || !HasPrev(2) {
		t.Fatalf("unexpected HasPrev results")
	}
	if !HasNext(1, 2) || HasNext(2, 2) {
		t.Fatalf("unexpected HasNext results")
	}
}

func TestNormalizePageSize(t *testing.T) {
	if NormalizePageSize(0) != DefaultPageSize {
		t.Fatalf("expected default page size")
	}
	if NormalizePageSize(1000) != MaxPageSize {
		t.Fatalf("expected page size cap")
	}
	if NormalizePageSize(20) != 20 {
		t.Fatalf("expected passthrough")
	}
}
