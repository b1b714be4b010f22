package validation

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func TestNormalize(t *testing.T) {
	n := NewDateNormalizer(fixedClock(time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC)))

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "dash separated",
			raw:  "2025-06-05",
			want: "2025-06-05",
		},
		{
			name: "slash separated",
			raw:  "2025/06/05",
			want: "2025-06-05",
		},
		{
			name: "space separated",
			raw:  "2025 06 05",
			want: "2025-06-05",
		},
		{
			name: "single digit month and day",
			raw:  "2025-6-5",
			want: "2025-06-05",
		},
		{
			name: "surrounding whitespace",
			raw:  "  2025/12/31 ",
			want: "2025-12-31",
		},
		{
			name: "today literal",
			raw:  "today()",
			want: "2025-03-01",
		},
		{
			name: "today literal upper case",
			raw:  " TODAY() ",
			want: "2025-03-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Normalize(tt.raw)
			if err != nil {
				t.Fatalf("Normalize(%q) error: %v", tt.raw, err)
			}
			if got.String() != tt.want {
				t.Fatalf("Normalize(%q) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalize_Invalid(t *testing.T) {
	n := NewDateNormalizer(nil)

	for _, raw := range []string{
		"",
		"today",
		"06/05/2025",
		"2025.06.05",
		"2025-13-01",
		"2025-02-30",
		"2025-06-05 extra",
		"2025-Q1",
	} {
		t.Run(raw, func(t *testing.T) {
			_, err := n.Normalize(raw)
			if !errors.Is(err, ErrInvalidDateFormat) {
				t.Fatalf("Normalize(%q) error = %v, want ErrInvalidDateFormat", raw, err)
			}
			if !strings.Contains(err.Error(), strings.TrimSpace(raw)) {
				t.Fatalf("error %q does not echo input %q", err.Error(), raw)
			}
		})
	}
}

func TestNormalize_FixedPoint(t *testing.T) {
	n := NewDateNormalizer(nil)

	first, err := n.Normalize("2025/06/05")
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}

	second, err := n.Normalize(first.String())
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}

	if first != second {
		t.Fatalf("normalizing %s again gave %s", first, second)
	}
}

func TestToday_UsesEasternTime(t *testing.T) {
	// 03:00 UTC второго марта — ещё первое марта в Нью-Йорке.
	n := NewDateNormalizer(fixedClock(time.Date(2025, 3, 2, 3, 0, 0, 0, time.UTC)))

	if got := n.Today().String(); got != "2025-03-01" {
		t.Fatalf("Today() = %s, want 2025-03-01", got)
	}
}

func TestReferenceLocation_Embedded(t *testing.T) {
	if referenceLocation.String() != ReferenceZone {
		t.Fatalf("location = %q, want %q", referenceLocation.String(), ReferenceZone)
	}
	// Летом зона переходит на EDT, фиксированное смещение этого не даёт.
	_, offset := time.Date(2025, 7, 1, 12, 0, 0, 0, referenceLocation).Zone()
	if offset != -4*60*60 {
		t.Fatalf("summer offset = %d, want %d", offset, -4*60*60)
	}
}

func TestMustLoadLocation_PanicsOnUnknownZone(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown zone")
		}
	}()
	mustLoadLocation("Nowhere/Unknown")
}
