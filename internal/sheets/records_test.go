package sheets

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"

	"stockbot/internal/errors"
)

func TestRecordsFromValues(t *testing.T) {
	values := [][]interface{}{
		{"ID", "Товар", "Количество"},
		{"1", "Гвозди", "10"},
		{float64(2), "Краска"}, // short row, numeric cell
	}

	records := recordsFromValues(values)
	assert.Len(t, records, 2)
	assert.Equal(t, map[string]string{"ID": "1", "Товар": "Гвозди", "Количество": "10"}, records[0])
	assert.Equal(t, map[string]string{"ID": "2", "Товар": "Краска", "Количество": ""}, records[1])
}

func TestRecordsFromValues_HeaderOnly(t *testing.T) {
	assert.Nil(t, recordsFromValues([][]interface{}{{"ID", "Товар"}}))
	assert.Nil(t, recordsFromValues(nil))
}

func TestRecordsFromValues_SkipsEmptyHeaders(t *testing.T) {
	values := [][]interface{}{
		{"ID", "", "Товар"},
		{"1", "мусор", "Гвозди"},
	}

	records := recordsFromValues(values)
	assert.Equal(t, map[string]string{"ID": "1", "Товар": "Гвозди"}, records[0])
}

func TestClassify(t *testing.T) {
	cases := []struct {
		code int
		kind errors.GatewayKind
	}{
		{http.StatusNotFound, errors.GatewaySheetNotFound},
		{http.StatusForbidden, errors.GatewayAccessDenied},
		{http.StatusUnauthorized, errors.GatewayAccessDenied},
		{http.StatusInternalServerError, errors.GatewayUnknown},
	}

	for _, tc := range cases {
		err := classify(&googleapi.Error{Code: tc.code}, "reading sheet")
		ge, ok := errors.IsGatewayError(err)
		assert.True(t, ok)
		assert.Equal(t, tc.kind, ge.Kind)
	}

	ge, ok := errors.IsGatewayError(classify(assert.AnError, "reading sheet"))
	assert.True(t, ok)
	assert.Equal(t, errors.GatewayUnknown, ge.Kind)
}
