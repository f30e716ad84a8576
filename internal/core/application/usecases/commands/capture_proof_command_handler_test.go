package commands_test

import (
	"testing"

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

func TestCaptureProofCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	driverID := kernel.NewUUID()
	d := testfixtures.AssignedDelivery(t, kernel.NewUUID(), driverID)
	cmd, err := commands.NewCaptureProofCommand(
		testfixtures.Actor(t, driverID, user.RoleDriver), d.ID(), "Rita Recipient", "sig://abc", "", "left with concierge",
	)
	require.NoError(t, err)

	deliveries := new(MockDeliveryRepository)
	deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()
	deliveries.On("Update", ctx, d).Return(nil).Once()
	users := new(MockUserRepository)
	users.On("IncrementTotalDeliveries", ctx, driverID).Return(nil).Once()
	uow := newTxUoW(ctx, deliveries, users)
	uow.On("Commit", ctx).Return(nil).Once()
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCaptureProofCommandHandler(factory, nil)
	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, delivery.Delivered, result.Delivery.Status())
	require.NotNil(t, result.Delivery.Proof())
	assert.Equal(t, "Rita Recipient", result.Delivery.Proof().RecipientName())
	assert.False(t, result.Delivery.Proof().CapturedAt().IsZero())
	last := result.Delivery.Timeline()[len(result.Delivery.Timeline())-1]
	assert.Equal(t, "Delivery completed with proof", last.Note())
	users.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCaptureProofCommandHandler_Handle_ManagerIsRejected(t *testing.T) {
	ctx := t.Context()
	d := testfixtures.AssignedDelivery(t, kernel.NewUUID(), kernel.NewUUID())
	cmd, _ := commands.NewCaptureProofCommand(testfixtures.Staff(t), d.ID(), "Rita", "sig://1", "", "")

	deliveries := new(MockDeliveryRepository)
	deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()
	factory := new(MockUoWFactory)
	factory.On("Create").Return(newTxUoW(ctx, deliveries, nil)).Once()

	handler := commands.NewCaptureProofCommandHandler(factory, nil)
	_, err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrNotAuthorized)
	assert.Nil(t, d.Proof())
}

func TestCaptureProofCommandHandler_Handle_SecondProofIsInvalidState(t *testing.T) {
	ctx := t.Context()
	driverID := kernel.NewUUID()
	d := testfixtures.DeliveredDelivery(t, kernel.NewUUID(), driverID)
	firstSignature := d.Proof().SignatureRef()
	cmd, _ := commands.NewCaptureProofCommand(testfixtures.Actor(t, driverID, user.RoleDriver), d.ID(), "Someone Else", "sig://2", "", "")

	deliveries := new(MockDeliveryRepository)
	deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()
	factory := new(MockUoWFactory)
	factory.On("Create").Return(newTxUoW(ctx, deliveries, nil)).Once()

	handler := commands.NewCaptureProofCommandHandler(factory, nil)
	_, err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInvalidState)
	assert.Equal(t, firstSignature, d.Proof().SignatureRef())
	deliveries.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestNewCaptureProofCommand_RequiresEvidence(t *testing.T) {
	_, err := commands.NewCaptureProofCommand(testfixtures.Staff(t), kernel.NewUUID(), "", "", "", "")

	require.ErrorIs(t, err, delivery.ErrProofRecipientIsRequired)
	require.ErrorIs(t, err, delivery.ErrProofEvidenceIsRequired)
}
