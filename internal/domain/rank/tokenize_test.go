package rank

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "korean with particles",
			in:   "배터리 의 용량 과 전압",
			want: []string{"배터리", "용량", "전압"},
		},
		{
			name: "mixed korean english digits",
			in:   "48V 배터리 모듈 BMS",
			want: []string{"48v", "배터리", "모듈", "bms"},
		},
		{
			name: "punctuation becomes separators",
			in:   "급속충전(350kW), 커넥터!",
			want: []string{"급속충전", "350kw", "커넥터"},
		},
		{
			name: "uppercase folded",
			in:   "Hyundai IONIQ",
			want: []string{"hyundai", "ioniq"},
		},
		{
			name: "empty input",
			in:   "",
			want: []string{},
		},
		{
			name: "whitespace only",
			in:   "   \t\n  ",
			want: []string{},
		},
		{
			name: "stopwords only",
			in:   "의 에 그리고 또는",
			want: []string{},
		},
		{
			name: "underscore kept",
			in:   "part_id",
			want: []string{"part_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTokenizeParticleAttachedStays(t *testing.T) {
	// Particles are only dropped as standalone tokens; an attached
	// particle stays part of the word.
	got := Tokenize("배터리의 용량")
	want := []string{"배터리의", "용량"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}
