package directory

import "testing"

func TestPaginate(t *testing.T) {
	tests := []struct {
		name                 string
		page, size, total    int
		label                string
		totalPages           int
		hasPrevious, hasNext bool
	}{
		{"middle page", 1, 10, 25, "11 to 20 of 25", 3, true, true},
		{"last page", 2, 10, 25, "21 to 25 of 25", 3, true, false},
		{"first page", 0, 10, 25, "1 to 10 of 25", 3, false, true},
		{"empty", 0, 10, 0, "0 to 0 of 0", 0, false, false},
		{"single page", 0, 25, 7, "1 to 7 of 7", 1, false, false},
		{"exact fit", 1, 5, 10, "6 to 10 of 10", 2, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(tt.page, tt.size, tt.total)
			if p.Label != tt.label {
				t.Errorf("expected label %q, got %q", tt.label, p.Label)
			}
			if p.TotalPages != tt.totalPages {
				t.Errorf("expected %d pages, got %d", tt.totalPages, p.TotalPages)
			}
			if p.HasPrevious != tt.hasPrevious || p.HasNext != tt.hasNext {
				t.Errorf("expected prev=%v next=%v, got prev=%v next=%v",
					tt.hasPrevious, tt.hasNext, p.HasPrevious, p.HasNext)
			}
		})
	}
}

func TestPaginate_DefaultsPageSize(t *testing.T) {
	p := Paginate(0, 0, 12)
	if p.PageSize != DefaultPageSize || p.To != 10 {
		t.Errorf("expected default page size 10, got %+v", p)
	}
}

func TestValidPageSize(t *testing.T) {
	for _, n := range []int{5, 10, 25, 50} {
		if !ValidPageSize(n) {
			t.Errorf("expected %d to be valid", n)
		}
	}
	for _, n := range []int{0, 7, 100} {
		if ValidPageSize(n) {
			t.Errorf("expected %d to be invalid", n)
		}
	}
}
