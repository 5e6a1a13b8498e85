package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tspagiari/oficinas/core/workshop"
	testutil "github.com/tspagiari/oficinas/tests"
)

func Test_workshopApi_lifecycle(t *testing.T) {
	sch := testutil.CreateSchool(t, schoolSvc, "Escola das Oficinas")
	rep := testutil.CreateRepresentative(t, usrSvc, "wf-rep@x.org", "pw123456", sch.ID, "Rep WF")
	adm := testutil.CreateAdmin(t, usrSvc, "wf-admin@x.org", "adminpass1", "Admin WF")
	mailSvc.Reset()

	body := marshallObj(t, testutil.NewRequest("Escola das Oficinas"))

	t.Run("anonymous create", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/workshop-requests", body)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	var created workshop.Request

	t.Run("representative creates", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/workshop-requests", getToken(t, rep), body)
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		decodeBody(t, rec, &created)
		assert.Equal(t, workshop.StatusPending, created.Status)
		assert.NotEmpty(t, created.ID)

		// staff notification went out
		sent := mailSvc.SentMessages()
		require.Len(t, sent, 1)
		assert.Contains(t, sent[0].Subject, "Nova Solicitação de Oficina")
	})

	t.Run("query forbidden for representative", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/workshop-requests", getToken(t, rep))
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "permission_denied", decodeError(t, rec).Kind)
	})

	t.Run("admin queries pending by default", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/workshop-requests", getToken(t, adm))
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var reqs []workshop.Request
		decodeBody(t, rec, &reqs)
		require.Len(t, reqs, 1)
		assert.Equal(t, created.ID, reqs[0].ID)
	})

	t.Run("status update forbidden for representative", func(t *testing.T) {
		statusBody := marshallObj(t, map[string]string{"status": "approved"})
		req, rec := newAuthRequest(http.MethodPut, "/api/workshop-requests/"+created.ID+"/status", getToken(t, rep), statusBody)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin approves", func(t *testing.T) {
		mailSvc.Reset()
		statusBody := marshallObj(t, map[string]string{"status": "approved"})
		req, rec := newAuthRequest(http.MethodPut, "/api/workshop-requests/"+created.ID+"/status", getToken(t, adm), statusBody)
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got workshop.Request
		decodeBody(t, rec, &got)
		assert.Equal(t, workshop.StatusApproved, got.Status)

		sent := mailSvc.SentMessages()
		require.Len(t, sent, 1)
		assert.Contains(t, sent[0].TextContent, "Aprovada")
	})

	t.Run("second update conflicts", func(t *testing.T) {
		statusBody := marshallObj(t, map[string]string{"status": "rejected"})
		req, rec := newAuthRequest(http.MethodPut, "/api/workshop-requests/"+created.ID+"/status", getToken(t, adm), statusBody)
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "invalid_transition", decodeError(t, rec).Kind)
	})

	t.Run("approved visible under its status", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/workshop-requests?status=approved", getToken(t, adm))
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var reqs []workshop.Request
		decodeBody(t, rec, &reqs)
		require.Len(t, reqs, 1)
		assert.Equal(t, created.ID, reqs[0].ID)

		// and gone from pending
		req, rec = newAuthRequest(http.MethodGet, "/api/workshop-requests", getToken(t, adm))
		app.ServeHTTP(rec, req)
		reqs = reqs[:0]
		decodeBody(t, rec, &reqs)
		assert.Empty(t, reqs)
	})
}

func Test_workshopApi_create_validation(t *testing.T) {
	sch := testutil.CreateSchool(t, schoolSvc, "Escola Validada")
	rep := testutil.CreateRepresentative(t, usrSvc, "wv-rep@x.org", "pw123456", sch.ID, "Rep WV")

	nr := testutil.NewRequest("Escola Validada")
	nr.WorkshopType = workshop.TypeOther // no description

	req, rec := newAuthRequest(http.MethodPost, "/api/workshop-requests", getToken(t, rep), marshallObj(t, nr))
	app.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	apiErr := decodeError(t, rec)
	assert.Equal(t, "validation_error", apiErr.Kind)

	flds, ok := apiErr.Error.(map[string]interface{})
	require.True(t, ok, "expected field error map, got %v", apiErr.Error)
	assert.Contains(t, flds, "otherDescription")
}

func Test_workshopApi_updateStatus_badTarget(t *testing.T) {
	testutil.CreateSchool(t, schoolSvc, "Escola Alvo")
	adm := testutil.CreateAdmin(t, usrSvc, "bt-admin@x.org", "adminpass1", "Admin BT")

	created, err := workshopSvc.Create(context.Background(), testutil.NewRequest("Escola Alvo"))
	require.NoError(t, err)

	statusBody := marshallObj(t, map[string]string{"status": "pending"})
	req, rec := newAuthRequest(http.MethodPut, "/api/workshop-requests/"+created.ID+"/status", getToken(t, adm), statusBody)
	app.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", decodeError(t, rec).Kind)

	t.Run("absent id", func(t *testing.T) {
		statusBody := marshallObj(t, map[string]string{"status": "approved"})
		req, rec := newAuthRequest(http.MethodPut, "/api/workshop-requests/nope/status", getToken(t, adm), statusBody)
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "not_found", decodeError(t, rec).Kind)
	})
}
