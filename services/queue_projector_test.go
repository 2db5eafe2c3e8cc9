package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholarship-portal-api/models"
)

func TestMyQueueIntersectsAssignedStages(t *testing.T) {
	f := newWorkflowFixture()
	fresh := f.newApplication("APP-2026-QUE00001")
	partly := f.newApplication("APP-2026-QUE00002")
	f.approve(t, partly.ApplicationID, StageDocumentVerification, docsReviewerID)

	queue, err := f.projector.MyQueue(docsReviewerID)
	require.NoError(t, err)
	require.Len(t, queue, 1, "the already-verified application must drop out")
	assert.Equal(t, fresh.ApplicationID, queue[0].Application.ApplicationID)
	assert.Equal(t, []Stage{StageDocumentVerification}, queue[0].Stages)

	// The dual reviewer still sees both applications via academic review.
	queue, err = f.projector.MyQueue(dualReviewerID)
	require.NoError(t, err)
	assert.Len(t, queue, 2)
}

func TestMyQueueExcludesTerminalApplications(t *testing.T) {
	f := newWorkflowFixture()
	app := f.newApplication("APP-2026-QUE00003")
	rejectAt(t, f, app.ApplicationID, StageFinancialReview, financeReviewerID)

	queue, err := f.projector.MyQueue(docsReviewerID)
	require.NoError(t, err)
	assert.Empty(t, queue)
}

func TestMyQueueUnknownUser(t *testing.T) {
	f := newWorkflowFixture()
	f.newApplication("APP-2026-QUE00004")

	_, err := f.projector.MyQueue(outsiderID)
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func TestChairpersonQueueShowsGatedFinalApproval(t *testing.T) {
	f := newWorkflowFixture()
	f.newApplication("APP-2026-QUE00005") // still in parallel review
	ready := f.newApplication("APP-2026-QUE00006")
	f.approveParallel(t, ready.ApplicationID)

	queue, err := f.projector.MyQueue(chairpersonID)
	require.NoError(t, err)
	require.Len(t, queue, 1, "final approval must only queue once gated stages pass")
	assert.Equal(t, ready.ApplicationID, queue[0].Application.ApplicationID)
	assert.Equal(t, []Stage{StageFinalApproval}, queue[0].Stages)
}

func TestStageQueue(t *testing.T) {
	f := newWorkflowFixture()
	first := f.newApplication("APP-2026-QUE00007")
	second := f.newApplication("APP-2026-QUE00008")
	f.approve(t, second.ApplicationID, StageFinancialReview, financeReviewerID)

	queue, err := f.projector.StageQueue(StageFinancialReview)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, first.ApplicationID, queue[0].Application.ApplicationID)

	queue, err = f.projector.StageQueue(StageFinalApproval)
	require.NoError(t, err)
	assert.Empty(t, queue, "final approval is not actionable for anyone yet")
}

func TestHistoryIncludesSupersededDecisionsAndAppeals(t *testing.T) {
	f := newWorkflowFixture()
	app := f.newApplication("APP-2026-QUE00009")
	rejectAt(t, f, app.ApplicationID, StageAcademicReview, academicReviewerID)

	appeal, err := f.appealSvc.FileAppeal(app.ApplicationID, "reconsider")
	require.NoError(t, err)
	_, _, err = f.appealSvc.ResolveAppeal(appeal.AppealID,
		models.AppealDecisionApproved, nil, "reconsidered and accepted", chairpersonID)
	require.NoError(t, err)

	history, err := f.projector.History(app.ApplicationID)
	require.NoError(t, err)

	assert.Equal(t, StatusInReview, history.Status)
	require.Len(t, history.Decisions, 2)
	require.Len(t, history.Appeals, 1)
	assert.Equal(t, models.AppealStatusResolved, history.Appeals[0].Status)

	_, err = f.projector.History(999999)
	assert.ErrorIs(t, err, ErrUnknownApplication)
}
