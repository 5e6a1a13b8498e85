package workshop_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tspagiari/oficinas/core"
	"github.com/tspagiari/oficinas/core/workshop"
	emailsvc "github.com/tspagiari/oficinas/services/email"
	inmemstore "github.com/tspagiari/oficinas/storage/docstore/inmem"
	docrepos "github.com/tspagiari/oficinas/storage/docstore/repos"
	testutil "github.com/tspagiari/oficinas/tests"
)

type fixture struct {
	svc     workshop.Service
	mailSvc *emailsvc.ConsoleServiceMock
}

func setup(t *testing.T) fixture {
	t.Helper()
	conf := testutil.NewConfig()
	core.ParseEmailTemplates(testutil.Logger{T: t})

	validate, _ := testutil.NewValidate()
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	svc := workshop.NewService(docrepos.NewWorkshopRepo(inmemstore.New()), mailSvc, conf, validate)
	return fixture{svc: svc, mailSvc: mailSvc}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	fix := setup(t)

	nr := testutil.NewRequest("Escola Azul")
	nr.Status = "approved" // callers cannot pick a status

	req, err := fix.svc.Create(ctx, nr)
	require.NoError(t, err)
	assert.NotEmpty(t, req.ID)
	assert.Equal(t, workshop.StatusPending, req.Status)
	assert.Equal(t, req.CreatedAt, req.UpdatedAt)

	pending, err := fix.svc.ByStatus(ctx, workshop.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, req, pending[0])

	// staff got notified
	sent := fix.mailSvc.SentMessages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Subject, "Nova Solicitação de Oficina")
	assert.Contains(t, sent[0].Subject, "Escola Azul")
	assert.Contains(t, sent[0].TextContent, "Escola Azul")
}

func TestService_Create_validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*workshop.NewRequest)
	}{
		{name: "missing school name", mutate: func(nr *workshop.NewRequest) { nr.SchoolName = "" }},
		{name: "zero hours", mutate: func(nr *workshop.NewRequest) { nr.Hours = 0 }},
		{name: "unknown type", mutate: func(nr *workshop.NewRequest) { nr.WorkshopType = "cooking" }},
		{name: "other without description", mutate: func(nr *workshop.NewRequest) { nr.WorkshopType = workshop.TypeOther }},
		{name: "bad start time", mutate: func(nr *workshop.NewRequest) { nr.StartTime = "8h00" }},
		{name: "start after end", mutate: func(nr *workshop.NewRequest) { nr.StartTime = "14:00"; nr.EndTime = "12:00" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fix := setup(t)
			nr := testutil.NewRequest("Escola Azul")
			tt.mutate(&nr)

			_, err := fix.svc.Create(ctx, nr)
			require.Error(t, err)

			// nothing persisted, nothing mailed
			pending, err := fix.svc.ByStatus(ctx, workshop.StatusPending)
			require.NoError(t, err)
			assert.Empty(t, pending)
			assert.Empty(t, fix.mailSvc.SentMessages())
		})
	}
}

func TestService_Create_otherWithDescription(t *testing.T) {
	fix := setup(t)

	nr := testutil.NewRequest("Escola Azul")
	nr.WorkshopType = workshop.TypeOther
	nr.OtherDescription = "Oficina de astronomia"

	req, err := fix.svc.Create(context.Background(), nr)
	require.NoError(t, err)
	assert.Equal(t, "Oficina de astronomia", req.OtherDescription)
}

func TestService_ByStatus(t *testing.T) {
	ctx := context.Background()
	fix := setup(t)
	testutil.CreateRequest(t, fix.svc, "Escola Azul")

	// every declared status is queryable, including the ones nothing
	// reaches yet
	for _, status := range []workshop.Status{
		workshop.StatusPending, workshop.StatusApproved, workshop.StatusRejected, workshop.StatusCompleted,
	} {
		reqs, err := fix.svc.ByStatus(ctx, status)
		require.NoError(t, err, "status %q", status)
		if status == workshop.StatusPending {
			assert.Len(t, reqs, 1)
		} else {
			assert.Empty(t, reqs)
		}
	}

	_, err := fix.svc.ByStatus(ctx, "bogus")
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Fields, 1)
	assert.Equal(t, "must be one of: pending, approved, rejected, completed", vErr.Fields[0].Error)
}

func TestService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	fix := setup(t)

	req := testutil.CreateRequest(t, fix.svc, "Escola Azul")
	fix.mailSvc.Reset()

	updated, err := fix.svc.UpdateStatus(ctx, req.ID, workshop.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, workshop.StatusApproved, updated.Status)
	assert.True(t, updated.UpdatedAt.After(req.UpdatedAt) || updated.UpdatedAt.Equal(req.UpdatedAt))
	assert.Equal(t, req.CreatedAt, updated.CreatedAt)

	// moved out of the pending queue
	pending, err := fix.svc.ByStatus(ctx, workshop.StatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending)

	approved, err := fix.svc.ByStatus(ctx, workshop.StatusApproved)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, updated, approved[0])

	sent := fix.mailSvc.SentMessages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Subject, "Atualização de Status")
	assert.Contains(t, sent[0].TextContent, "Aprovada")
	assert.Contains(t, sent[0].TextContent, updated.UpdatedAt.Format("02/01/2006"))
}

// approved and rejected are terminal: no second transition, in any
// direction.
func TestService_UpdateStatus_terminal(t *testing.T) {
	ctx := context.Background()
	fix := setup(t)

	req := testutil.CreateRequest(t, fix.svc, "Escola Azul")
	_, err := fix.svc.UpdateStatus(ctx, req.ID, workshop.StatusRejected)
	require.NoError(t, err)
	fix.mailSvc.Reset()

	for _, target := range []workshop.Status{workshop.StatusApproved, workshop.StatusRejected} {
		_, err = fix.svc.UpdateStatus(ctx, req.ID, target)
		assert.Equal(t, workshop.ErrInvalidTransition, err)
	}

	// the stored record kept its first outcome, and nothing was mailed
	rejected, err := fix.svc.ByStatus(ctx, workshop.StatusRejected)
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.Equal(t, workshop.StatusRejected, rejected[0].Status)
	assert.Empty(t, fix.mailSvc.SentMessages())
}

func TestService_UpdateStatus_invalidTarget(t *testing.T) {
	ctx := context.Background()
	fix := setup(t)

	req := testutil.CreateRequest(t, fix.svc, "Escola Azul")

	for _, target := range []workshop.Status{workshop.StatusPending, workshop.StatusCompleted, "bogus"} {
		_, err := fix.svc.UpdateStatus(ctx, req.ID, target)
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr, "target %q", target)
	}
}

func TestService_UpdateStatus_notFound(t *testing.T) {
	fix := setup(t)

	_, err := fix.svc.UpdateStatus(context.Background(), "nope", workshop.StatusApproved)
	assert.Equal(t, workshop.ErrNotFound, err)
}

// A broken mail sender must never block the request flow.
func TestService_Create_mailFailureIgnored(t *testing.T) {
	conf := testutil.NewConfig()
	validate, _ := testutil.NewValidate()
	svc := workshop.NewService(docrepos.NewWorkshopRepo(inmemstore.New()), droppingMailService{}, conf, validate)

	req, err := svc.Create(context.Background(), testutil.NewRequest("Escola Azul"))
	require.NoError(t, err)
	assert.Equal(t, workshop.StatusPending, req.Status)
}

// droppingMailService silently drops everything, like a sender whose
// upstream is down.
type droppingMailService struct{}

func (droppingMailService) SendMessages(...*core.EmailMessage) {}
