package commands_test

import (
	"errors"
	"testing"
	"time"

	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/domain/model/delivery"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"
	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/testfixtures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fastRetry = commands.CodeRetryPolicy{MaxAttempts: 3, InitialInterval: time.Millisecond}

func TestCreateDeliveryCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	client := testfixtures.Actor(t, kernel.NewUUID(), user.RoleClient)
	cmd, err := commands.NewCreateDeliveryCommand(client, testfixtures.Details(t))
	require.NoError(t, err)
	code := testfixtures.TrackingCode(t)

	codes := new(MockCodeGenerator)
	codes.On("Generate", mock.AnythingOfType("time.Time")).Return(code, nil).Once()

	repo := new(MockDeliveryRepository)
	repo.On("Add", ctx, mock.AnythingOfType("*delivery.Delivery")).Return(nil).Once()

	uow := newTxUoW(ctx, repo, nil)
	uow.On("Commit", ctx).Return(nil).Once()

	factory := new(MockDeliveryUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateDeliveryCommandHandler(factory, codes, fastRetry)
	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, result.Delivery)
	assert.True(t, result.Delivery.TrackingCode().IsEqual(code))
	assert.True(t, result.Delivery.ClientID().IsEqual(client.ID()))
	assert.Equal(t, delivery.Pending, result.Delivery.Status())
	assert.Len(t, result.Delivery.Timeline(), 1)
	assert.Empty(t, result.Warnings)
	codes.AssertExpectations(t)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateDeliveryCommandHandler_Handle_RegeneratesCodeOnConflict(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateDeliveryCommand(testfixtures.Staff(t), testfixtures.Details(t))
	require.NoError(t, err)
	taken := testfixtures.TrackingCode(t)
	fresh := testfixtures.TrackingCode(t)

	codes := new(MockCodeGenerator)
	codes.On("Generate", mock.AnythingOfType("time.Time")).Return(taken, nil).Once()
	codes.On("Generate", mock.AnythingOfType("time.Time")).Return(fresh, nil).Once()

	firstRepo := new(MockDeliveryRepository)
	firstRepo.On("Add", ctx, mock.AnythingOfType("*delivery.Delivery")).
		Return(errs.NewConflictError("trackingCode", taken.String())).Once()
	firstUoW := newTxUoW(ctx, firstRepo, nil)

	secondRepo := new(MockDeliveryRepository)
	secondRepo.On("Add", ctx, mock.AnythingOfType("*delivery.Delivery")).Return(nil).Once()
	secondUoW := newTxUoW(ctx, secondRepo, nil)
	secondUoW.On("Commit", ctx).Return(nil).Once()

	factory := new(MockDeliveryUoWFactory)
	factory.On("Create").Return(firstUoW).Once()
	factory.On("Create").Return(secondUoW).Once()

	handler := commands.NewCreateDeliveryCommandHandler(factory, codes, fastRetry)
	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, result.Delivery.TrackingCode().IsEqual(fresh))
	firstUoW.AssertNotCalled(t, "Commit", ctx)
	codes.AssertExpectations(t)
	secondUoW.AssertExpectations(t)
}

func TestCreateDeliveryCommandHandler_Handle_ConflictExhaustsAttempts(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateDeliveryCommand(testfixtures.Staff(t), testfixtures.Details(t))
	require.NoError(t, err)

	codes := new(MockCodeGenerator)
	codes.On("Generate", mock.AnythingOfType("time.Time")).Return(testfixtures.TrackingCode(t), nil)

	repo := new(MockDeliveryRepository)
	repo.On("Add", ctx, mock.AnythingOfType("*delivery.Delivery")).
		Return(errs.NewConflictError("trackingCode", "CD1")).Times(3)

	factory := new(MockDeliveryUoWFactory)
	for range 3 {
		factory.On("Create").Return(newTxUoW(ctx, repo, nil)).Once()
	}

	handler := commands.NewCreateDeliveryCommandHandler(factory, codes, fastRetry)
	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConflict)
	codes.AssertNumberOfCalls(t, "Generate", 3)
	repo.AssertExpectations(t)
}

func TestCreateDeliveryCommandHandler_Handle_InvalidDetailsAreNotRetried(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateDeliveryCommand(testfixtures.Staff(t), delivery.Details{})
	require.NoError(t, err)

	codes := new(MockCodeGenerator)
	codes.On("Generate", mock.AnythingOfType("time.Time")).Return(testfixtures.TrackingCode(t), nil).Once()
	factory := new(MockDeliveryUoWFactory)

	handler := commands.NewCreateDeliveryCommandHandler(factory, codes, fastRetry)
	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.True(t, errs.IsValidation(err))
	codes.AssertExpectations(t)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateDeliveryCommandHandler_Handle_DriverCannotBook(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateDeliveryCommand(testfixtures.Actor(t, kernel.NewUUID(), user.RoleDriver), testfixtures.Details(t))
	require.NoError(t, err)

	codes := new(MockCodeGenerator)
	factory := new(MockDeliveryUoWFactory)

	handler := commands.NewCreateDeliveryCommandHandler(factory, codes, fastRetry)
	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrNotAuthorized)
	codes.AssertNotCalled(t, "Generate", mock.Anything)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateDeliveryCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateDeliveryCommand(testfixtures.Staff(t), testfixtures.Details(t))
	require.NoError(t, err)

	codes := new(MockCodeGenerator)
	codes.On("Generate", mock.AnythingOfType("time.Time")).Return(testfixtures.TrackingCode(t), nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(errors.New("begin error")).Once()
	factory := new(MockDeliveryUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateDeliveryCommandHandler(factory, codes, fastRetry)
	_, err = handler.Handle(ctx, cmd)

	require.EqualError(t, err, "begin error")
}

func TestCreateDeliveryCommandHandler_Handle_ValidationError(t *testing.T) {
	handler := commands.NewCreateDeliveryCommandHandler(new(MockDeliveryUoWFactory), new(MockCodeGenerator), fastRetry)

	_, err := handler.Handle(t.Context(), commands.CreateDeliveryCommand{})

	require.ErrorIs(t, err, commands.ErrCreateDeliveryCommandIsNotConstructed)
}
