package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckDuplicatesInvalidJSON(t *testing.T) {
	h := NewDuplicateHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/duplicates/check", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	h.Check(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckDuplicatesMissingOrganization(t *testing.T) {
	h := NewDuplicateHandler(nil)

	body := `{"kind":"leads","record":{"company_name":"Acme"}}`
	req := httptest.NewRequest(http.MethodPost, "/duplicates/check", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.Check(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "MISSING_FIELDS", resp.Code)
}

func TestCheckDuplicatesUnknownKind(t *testing.T) {
	h := NewDuplicateHandler(nil)

	body := `{"kind":"invoices","organization_id":"org-1","record":{}}`
	req := httptest.NewRequest(http.MethodPost, "/duplicates/check", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.Check(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_KIND", resp.Code)
}
