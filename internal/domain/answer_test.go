package domain

import (
	"encoding/json"
	"testing"
)

func TestAnswerUnmarshal_AcceptsTypeAlias(t *testing.T) {
	tests := []struct {
		name string
		json string
		want Answer
	}{
		{
			name: "canonical accentType key",
			json: `{"syllable": "ra", "accentType": "aguda"}`,
			want: AccentAnswer("ra", "aguda"),
		},
		{
			name: "short type alias",
			json: `{"syllable": "ra", "type": "aguda"}`,
			want: AccentAnswer("ra", "aguda"),
		},
		{
			name: "accentType wins over alias",
			json: `{"syllable": "ra", "accentType": "llana", "type": "aguda"}`,
			want: AccentAnswer("ra", "llana"),
		},
		{
			name: "plain text untouched",
			json: `{"text": "sol"}`,
			want: TextAnswer("sol"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Answer
			if err := json.Unmarshal([]byte(tt.json), &got); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if got.Syllable != tt.want.Syllable || got.AccentType != tt.want.AccentType || got.Text != tt.want.Text {
				t.Errorf("Unmarshal() = %+v; want %+v", got, tt.want)
			}
		})
	}
}
