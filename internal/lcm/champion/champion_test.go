package champion

import "testing"

func TestNameAndID(t *testing.T) {
	name, ok := Name(523)
	if !ok || name != "Aphelios" {
		t.Fatalf("Name(523) = %q, %v", name, ok)
	}
	id, ok := ID("aphelios")
	if !ok || id != 523 {
		t.Fatalf("ID(aphelios) = %d, %v", id, ok)
	}
	if _, ok := Name(0); ok {
		t.Error("0 is not a champion")
	}
}

func TestTableHasUniqueEntries(t *testing.T) {
	ids := map[uint32]bool{}
	names := map[string]bool{}
	for _, e := range list {
		if e.id == DefaultID {
			t.Errorf("%s uses the default id", e.name)
		}
		if ids[e.id] || names[e.name] {
			t.Errorf("duplicate entry %d %q", e.id, e.name)
		}
		ids[e.id] = true
		names[e.name] = true
	}
}

func TestOptions(t *testing.T) {
	opts := Options()
	if opts[0] != Disabled || opts[1] != Default {
		t.Fatalf("unexpected leading options %v", opts[:2])
	}
	if len(opts) != len(list)+2 {
		t.Errorf("expected %d options, got %d", len(list)+2, len(opts))
	}
	for i := 3; i < len(opts); i++ {
		if opts[i-1] > opts[i] {
			t.Fatalf("champions not sorted at %d: %q > %q", i, opts[i-1], opts[i])
		}
	}
}

func TestParseOption(t *testing.T) {
	tests := []struct {
		in      string
		want    *uint32
		wantErr bool
	}{
		{"Disabled", nil, false},
		{"default", Ptr(0), false},
		{"Kai'Sa", Ptr(145), false},
		{"523", Ptr(523), false},
		{"9999", Ptr(9999), false},
		{"0", nil, true},
		{"Not A Champion", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOption(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
				t.Errorf("ParseOption(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	if got := Label(nil); got != Disabled {
		t.Errorf("Label(nil) = %q", got)
	}
	if got := Label(Ptr(0)); got != Default {
		t.Errorf("Label(0) = %q", got)
	}
	if got := Label(Ptr(103)); got != "Ahri" {
		t.Errorf("Label(103) = %q", got)
	}
	if got := Label(Ptr(9999)); got != "Champion 9999" {
		t.Errorf("Label(9999) = %q", got)
	}
}
