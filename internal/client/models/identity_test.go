package models

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/aihr/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidPhone(t *testing.T) {
	valid := []string{"+998901234567", "+998000000000", "+998999999999"}
	for _, p := range valid {
		assert.True(t, ValidPhone(p), p)
	}

	invalid := []string{
		"",
		"998901234567",
		"+99890123456",
		"+9989012345678",
		"+997901234567",
		"+7998901234567",
		"+99890123456a",
		"+998 90 123 45 67",
		" +998901234567",
		"+998901234567\n",
		"+998９01234567",
	}
	for _, p := range invalid {
		assert.False(t, ValidPhone(p), p)
	}
}

func TestValidateUpload(t *testing.T) {
	ok := Identity{Name: "Ali Valiyev", Phone: "+998901234567", Email: "a@b.com"}

	tests := []struct {
		name  string
		id    Identity
		file  string
		field string
	}{
		{name: "all good", id: ok, file: "cv.pdf"},
		{name: "missing name", id: Identity{Phone: ok.Phone, Email: ok.Email}, file: "cv.pdf", field: FieldIdentity},
		{name: "missing email", id: Identity{Name: ok.Name, Phone: ok.Phone}, file: "cv.pdf", field: FieldIdentity},
		{name: "missing phone beats bad file", id: Identity{Name: ok.Name, Email: ok.Email}, file: "", field: FieldIdentity},
		{name: "bad phone", id: Identity{Name: ok.Name, Phone: "+99890", Email: ok.Email}, file: "cv.pdf", field: FieldPhone},
		{name: "no file", id: ok, file: "", field: FieldFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.id, tt.file)
			if tt.field == "" {
				require.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}
