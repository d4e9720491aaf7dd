package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateResults(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:  "empty document",
			input: `[]`,
		},
		{
			name: "feature with steps and embeddings",
			input: `[{"uri":"features/a.feature","elements":[{"name":"s","steps":[
				{"keyword":"Given ","name":"x","result":{"status":"passed","duration":1200},
				 "embeddings":[{"mime_type":"text/plain","data":"aGk="}]}]}]}]`,
		},
		{
			name:  "feature without elements",
			input: `[{"uri":"features/a.feature"}]`,
		},
		{
			name:    "not an array",
			input:   `{"uri":"features/a.feature"}`,
			wantErr: true,
		},
		{
			name:    "feature missing uri",
			input:   `[{"name":"no uri"}]`,
			wantErr: true,
		},
		{
			name:    "status is not a string",
			input:   `[{"uri":"a","elements":[{"steps":[{"result":{"status":3}}]}]}]`,
			wantErr: true,
		},
		{
			name:    "embedding without data",
			input:   `[{"uri":"a","elements":[{"steps":[{"embeddings":[{"mime_type":"image/png"}]}]}]}]`,
			wantErr: true,
		},
		{
			name:    "malformed JSON",
			input:   `[{"uri":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateResults([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
