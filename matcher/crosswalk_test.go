package matcher

import (
	"reflect"
	"testing"

	"github.com/DegreeData/audit-tools/schema"
)

func TestReplaceConditionCodes(t *testing.T) {
	testCases := []struct {
		name  string
		value string
		want  string
	}{
		{"single maroon code", "L & MA", "t & v"},
		{"two letter maroon code", "CS", "Q"},
		{"gold code wins over embedded maroon code", "MATH", "Æ"},
		{"unknown token left alone", "CSX & C", "CSX & c"},
		{"connectors untouched", "HUAD OR (HU or SB) & C & H", "¿ OR (H or S) & c & h"},
		{"empty cell", "", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ReplaceConditionCodes(tc.value); got != tc.want {
				t.Errorf("ReplaceConditionCodes(%q) = %q, want %q", tc.value, got, tc.want)
			}
		})
	}
}

func TestSplitGoldHead(t *testing.T) {
	testCases := []struct {
		name  string
		value string
		want  []string
	}{
		{"gold head splits off", "¿ or (H or S) & c & h", []string{"¿", "(H or S) & c & h"}},
		{"upper case connector folded", "¿ OR (H or S) & c & h", []string{"¿", "(H or S) & c & h"}},
		{"no gold head", "(H or S) & c & h", []string{"(H or S) & c & h"}},
		{"gold code not at head stays put", "(H or ß) & c", []string{"(H or ß) & c"}},
		{"bare gold code without alternative", "Æ", []string{"Æ"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SplitGoldHead(tc.value); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("SplitGoldHead(%q) = %v, want %v", tc.value, got, tc.want)
			}
		})
	}
}

func TestExpandConditions(t *testing.T) {
	testCases := []struct {
		name  string
		value string
		want  []string
	}{
		{"alternatives in first slot", "(H or S) & c & h", []string{"Hch", "Sch"}},
		{"plain combination", "t & v", []string{"tv"}},
		{"single code", "H", []string{"H"}},
		{"slots past the fourth dropped", "t & v & c & h & z", []string{"tvch"}},
		{"empty cell", "", []string{""}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExpandConditions(tc.value); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("ExpandConditions(%q) = %v, want %v", tc.value, got, tc.want)
			}
		})
	}
}

func TestBuildCrosswalk(t *testing.T) {
	rows := []schema.CrosswalkRow{
		{Designation: "GE11", Conditions: "HUAD OR (HU or SB) & C & H"},
		{Designation: "GELM", Conditions: "L & MA"},
		{Designation: "GECI", Conditions: "CIVI"},
	}
	want := map[string][]string{
		"GE11": {"¿", "Hch", "Sch"},
		"GELM": {"tv"},
		"GECI": {"«"},
		"-":    {""},
	}
	got := BuildCrosswalk(rows)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildCrosswalk() = %v, want %v", got, want)
	}
}
