package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jobportal/pkg/models"
)

func TestW4Prefill(t *testing.T) {
	cases := []struct {
		name    string
		profile *models.ParsedResume
		want    W4Form
	}{
		{
			name:    "full address",
			profile: &models.ParsedResume{FullName: "Jane Doe", Address: strPtr("42 Elm St, Springfield, IL 62701")},
			want:    W4Form{FirstName: "Jane", LastName: "Doe", Street: "42 Elm St", CityStateZip: "Springfield, IL 62701", Signature: "e-Signed by Jane Doe"},
		},
		{
			name:    "single name without address",
			profile: &models.ParsedResume{FullName: "Cher"},
			want:    W4Form{FirstName: "Cher", Signature: "e-Signed by Cher"},
		},
		{
			name:    "address without comma",
			profile: &models.ParsedResume{FullName: "Ada King Lovelace", Address: strPtr(" 10 Downing Street ")},
			want:    W4Form{FirstName: "Ada", LastName: "King Lovelace", Street: "10 Downing Street", Signature: "e-Signed by Ada King Lovelace"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, W4Prefill(tc.profile))
		})
	}

	assert.Equal(t, W4Form{}, W4Prefill(nil))
}
