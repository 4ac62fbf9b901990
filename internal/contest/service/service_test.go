package service

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/sha3"

	"faceid/internal/contest/models"
	"faceid/internal/contest/service/mocks"
	"faceid/internal/extractor"
	"faceid/internal/ledger"
	dErrors "faceid/pkg/domain-errors"
	"faceid/pkg/platform/audit"
	"faceid/pkg/platform/sentinel"
	"faceid/pkg/vector"
)

// Justification for unit tests: registration ordering (oracle before
// register, register only when absent) and the integer scoring must agree
// with the contract, which is only observable through collaborator calls.

const testProof = `{"proof":{"pi_a":["1","2","1"],"pi_b":[["3","4"],["5","6"],["1","0"]],"pi_c":["7","8","1"]},"pub_signals":["42"]}`

type ContestServiceSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	store     *mocks.MockStore
	extractor *mocks.MockExtractor
	oracle    *mocks.MockOracle
	ledger    *mocks.MockLedger
	service   *Service
	submitter common.Address
	ctx       context.Context
}

func TestContestServiceSuite(t *testing.T) {
	suite.Run(t, new(ContestServiceSuite))
}

func (s *ContestServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockStore(s.ctrl)
	s.extractor = mocks.NewMockExtractor(s.ctrl)
	s.oracle = mocks.NewMockOracle(s.ctrl)
	s.ledger = mocks.NewMockLedger(s.ctrl)
	s.submitter = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	s.oracle.EXPECT().Submitter().Return(s.submitter).AnyTimes()

	svc, err := New(s.store, s.extractor, s.oracle, s.ledger)
	s.Require().NoError(err)
	s.service = svc
	s.ctx = context.Background()
}

// withOffset returns a discrete vector whose squared distance from the zero
// vector is n*step*step.
func withOffset(n int, step uint8) vector.Discrete {
	v := make(vector.Discrete, vector.Dimension)
	for i := 0; i < n; i++ {
		v[i] = step
	}
	return v
}

func discreteSuccess(v vector.Discrete) extractor.DiscreteResult {
	c := make(vector.Continuous, len(v))
	for i, x := range v {
		c[i] = float64(x)/127 - 1
	}
	return extractor.Success(c).Discrete()
}

func (s *ContestServiceSuite) registerRequest() models.RegisterRequest {
	return models.RegisterRequest{
		Image: []byte("selfie"),
		Proof: json.RawMessage(testProof),
		Name:  "alice",
	}
}

// =============================================================================
// Register
// =============================================================================

func (s *ContestServiceSuite) TestRegister_FullFlow() {
	req := s.registerRequest()
	hash := sha3.Sum256(req.Image)
	features := withOffset(3, 7)

	var saved *models.Participant
	gomock.InOrder(
		s.extractor.EXPECT().ExtractDiscrete(gomock.Any(), req.Image).Return(discreteSuccess(features), nil),
		s.ledger.EXPECT().LatestContestID(gomock.Any()).Return(uint64(4), nil),
		s.oracle.EXPECT().Publish(gomock.Any(), hash, features).Return(true, nil),
		s.store.EXPECT().SaveParticipant(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p *models.Participant) (bool, error) {
				saved = p
				return true, nil
			}),
		s.ledger.EXPECT().IsParticipantRegistered(gomock.Any(), uint64(4), hash).Return(false, nil),
		s.ledger.EXPECT().Register(gomock.Any(), uint64(4), hash, s.submitter, gomock.Any()).Return(nil),
	)

	res, err := s.service.Register(s.ctx, req)
	s.Require().NoError(err)
	s.Equal(uint64(4), res.ContestID)
	s.Equal(hex.EncodeToString(hash[:]), res.Hash.Hex())
	s.Equal(features, res.FeatureVector)
	s.True(res.Published)
	s.True(res.Registered)

	s.Require().NotNil(saved)
	s.Equal(res.Hash.Hex(), saved.ImageHash)
	s.Equal(req.Image, saved.ImageContent)
	s.Equal(uint64(4), saved.ContestID)
}

func (s *ContestServiceSuite) TestRegister_AlreadyRegisteredSkipsTransaction() {
	req := s.registerRequest()
	req.RewardAddress = "0x00000000000000000000000000000000000000bb"

	s.extractor.EXPECT().ExtractDiscrete(gomock.Any(), gomock.Any()).Return(discreteSuccess(withOffset(1, 1)), nil)
	s.ledger.EXPECT().LatestContestID(gomock.Any()).Return(uint64(1), nil)
	s.oracle.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
	s.store.EXPECT().SaveParticipant(gomock.Any(), gomock.Any()).Return(false, nil)
	s.ledger.EXPECT().IsParticipantRegistered(gomock.Any(), uint64(1), gomock.Any()).Return(true, nil)
	s.ledger.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	res, err := s.service.Register(s.ctx, req)
	s.Require().NoError(err)
	s.False(res.Published)
	s.False(res.Registered)
}

func (s *ContestServiceSuite) TestRegister_UsesRewardAddress() {
	req := s.registerRequest()
	req.RewardAddress = "0x00000000000000000000000000000000000000bb"

	s.extractor.EXPECT().ExtractDiscrete(gomock.Any(), gomock.Any()).Return(discreteSuccess(withOffset(1, 1)), nil)
	s.ledger.EXPECT().LatestContestID(gomock.Any()).Return(uint64(1), nil)
	s.oracle.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
	s.store.EXPECT().SaveParticipant(gomock.Any(), gomock.Any()).Return(true, nil)
	s.ledger.EXPECT().IsParticipantRegistered(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
	s.ledger.EXPECT().Register(gomock.Any(), uint64(1), gomock.Any(),
		common.HexToAddress(req.RewardAddress), gomock.Any()).Return(nil)

	_, err := s.service.Register(s.ctx, req)
	s.Require().NoError(err)
}

func (s *ContestServiceSuite) TestRegister_RejectsBadInput() {
	s.Run("malformed proof", func() {
		req := s.registerRequest()
		req.Proof = json.RawMessage(`{"proof":{}}`)
		_, err := s.service.Register(s.ctx, req)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("invalid reward address", func() {
		req := s.registerRequest()
		req.RewardAddress = "not-an-address"
		_, err := s.service.Register(s.ctx, req)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("no face", func() {
		s.extractor.EXPECT().ExtractDiscrete(gomock.Any(), gomock.Any()).Return(extractor.NoFaceFound().Discrete(), nil)
		_, err := s.service.Register(s.ctx, s.registerRequest())
		s.True(dErrors.HasCode(err, dErrors.CodeNoFaceFound))
	})

	s.Run("too many people", func() {
		s.extractor.EXPECT().ExtractDiscrete(gomock.Any(), gomock.Any()).Return(extractor.TooManyPeople().Discrete(), nil)
		_, err := s.service.Register(s.ctx, s.registerRequest())
		s.True(dErrors.HasCode(err, dErrors.CodeTooManyPeople))
	})
}

func (s *ContestServiceSuite) TestRegister_LedgerFailures() {
	s.Run("no contest yet", func() {
		s.extractor.EXPECT().ExtractDiscrete(gomock.Any(), gomock.Any()).Return(discreteSuccess(withOffset(1, 1)), nil)
		s.ledger.EXPECT().LatestContestID(gomock.Any()).Return(uint64(0), ledger.ErrNoContest)
		s.oracle.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := s.service.Register(s.ctx, s.registerRequest())
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		s.ErrorIs(err, ledger.ErrNoContest)
	})

	s.Run("oracle timeout", func() {
		s.extractor.EXPECT().ExtractDiscrete(gomock.Any(), gomock.Any()).Return(discreteSuccess(withOffset(1, 1)), nil)
		s.ledger.EXPECT().LatestContestID(gomock.Any()).Return(uint64(2), nil)
		s.oracle.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, ledger.ErrTimeout)
		s.store.EXPECT().SaveParticipant(gomock.Any(), gomock.Any()).Times(0)

		_, err := s.service.Register(s.ctx, s.registerRequest())
		s.ErrorIs(err, ledger.ErrTimeout)
	})
}

// =============================================================================
// ChooseWinner
// =============================================================================

func (s *ContestServiceSuite) participants() []models.Participant {
	return []models.Participant{
		{Name: "near", ImageHash: "aa", ImageContent: []byte("a"), FeatureVector: withOffset(40, 10)}, // 4000
		{Name: "mid", ImageHash: "bb", ImageContent: []byte("b"), FeatureVector: withOffset(100, 10)}, // 10000
		{Name: "far", ImageHash: "cc", ImageContent: []byte("c"), FeatureVector: withOffset(50, 20)},  // 20000
	}
}

func (s *ContestServiceSuite) TestChooseWinner_NoWinnerYet() {
	s.ledger.EXPECT().LatestContestID(gomock.Any()).Return(uint64(9), nil)
	s.ledger.EXPECT().ContestInfo(gomock.Any(), uint64(9)).Return(ledger.ContestInfo{
		Reference: make(vector.Discrete, vector.Dimension),
		StartTime: time.Unix(1700000000, 0).UTC(),
		Duration:  time.Hour,
	}, nil)
	s.store.EXPECT().ListParticipants(gomock.Any(), uint64(9)).Return(s.participants(), nil)

	standings, err := s.service.ChooseWinner(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(100), standings.WinningPool)
	s.Nil(standings.Winner)
	s.Require().Len(standings.Participants, 3)

	s.Equal(uint64(4000), standings.Participants[0].Distance)
	s.Equal(100.0, standings.Participants[0].Percentage)
	s.Equal(50.0, standings.Participants[1].Percentage)
	s.Equal(uint64(20000), standings.Participants[2].Distance)
	s.Equal(0.0, standings.Participants[2].Percentage)
}

func (s *ContestServiceSuite) TestChooseWinner_WinnerSurfaced() {
	var winner [32]byte
	winner[0] = 0xaa
	winnerHex := hex.EncodeToString(winner[:])

	s.ledger.EXPECT().LatestContestID(gomock.Any()).Return(uint64(9), nil)
	s.ledger.EXPECT().ContestInfo(gomock.Any(), uint64(9)).Return(ledger.ContestInfo{
		Reference: make(vector.Discrete, vector.Dimension),
		Winner:    winner,
	}, nil)
	s.store.EXPECT().ListParticipants(gomock.Any(), uint64(9)).Return(nil, nil)
	s.store.EXPECT().FindParticipant(gomock.Any(), uint64(9), winnerHex).Return(&models.Participant{Name: "alice", ImageHash: winnerHex}, nil)

	standings, err := s.service.ChooseWinner(s.ctx)
	s.Require().NoError(err)
	s.Require().NotNil(standings.Winner)
	s.Equal("alice", standings.Winner.Name)
	s.Equal(winnerHex, standings.Winner.ImageHash)
	s.Empty(standings.Participants)
}

func (s *ContestServiceSuite) TestChooseWinner_WinnerNotCachedLocally() {
	s.ledger.EXPECT().LatestContestID(gomock.Any()).Return(uint64(9), nil)
	s.ledger.EXPECT().ContestInfo(gomock.Any(), uint64(9)).Return(ledger.ContestInfo{
		Reference: make(vector.Discrete, vector.Dimension),
		Winner:    [32]byte{1},
	}, nil)
	s.store.EXPECT().ListParticipants(gomock.Any(), uint64(9)).Return(nil, nil)
	s.store.EXPECT().FindParticipant(gomock.Any(), uint64(9), gomock.Any()).Return(nil, sentinel.ErrNotFound)

	standings, err := s.service.ChooseWinner(s.ctx)
	s.Require().NoError(err)
	s.Nil(standings.Winner)
}

func (s *ContestServiceSuite) TestChooseWinner_LedgerFailure() {
	s.ledger.EXPECT().LatestContestID(gomock.Any()).Return(uint64(9), nil)
	s.ledger.EXPECT().ContestInfo(gomock.Any(), uint64(9)).Return(ledger.ContestInfo{}, errors.New("rpc down"))
	s.store.EXPECT().ListParticipants(gomock.Any(), uint64(9)).Return(nil, nil).AnyTimes()

	_, err := s.service.ChooseWinner(s.ctx)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ContestServiceSuite) TestChooseWinner_VerifiesDistances() {
	svc, err := New(s.store, s.extractor, s.oracle, s.ledger, WithDistanceVerification(true), WithWinningPool(250))
	s.Require().NoError(err)

	ref := make(vector.Discrete, vector.Dimension)
	s.ledger.EXPECT().LatestContestID(gomock.Any()).Return(uint64(2), nil)
	s.ledger.EXPECT().ContestInfo(gomock.Any(), uint64(2)).Return(ledger.ContestInfo{Reference: ref}, nil)
	s.store.EXPECT().ListParticipants(gomock.Any(), uint64(2)).Return(s.participants()[:1], nil)
	s.ledger.EXPECT().CalculateDistance(gomock.Any(), withOffset(40, 10), ref).Return(uint64(4000), nil)

	standings, err := svc.ChooseWinner(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(250), standings.WinningPool)
}

// =============================================================================
// Create and Finalize
// =============================================================================

func (s *ContestServiceSuite) TestCreate() {
	ref := withOffset(5, 5)
	s.Run("returns the new contest id", func() {
		gomock.InOrder(
			s.ledger.EXPECT().CreateContest(gomock.Any(), ref, 24*time.Hour).Return(nil),
			s.ledger.EXPECT().LatestContestID(gomock.Any()).Return(uint64(3), nil),
		)
		id, err := s.service.Create(s.ctx, ref, 24*time.Hour)
		s.Require().NoError(err)
		s.Equal(uint64(3), id)
	})

	s.Run("rejects short reference", func() {
		_, err := s.service.Create(s.ctx, vector.Discrete{1, 2}, time.Hour)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("rejects non-positive duration", func() {
		_, err := s.service.Create(s.ctx, ref, 0)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func (s *ContestServiceSuite) TestFinalize() {
	s.ledger.EXPECT().LatestContestID(gomock.Any()).Return(uint64(6), nil)
	s.ledger.EXPECT().FinalizeContest(gomock.Any(), uint64(6)).Return(nil)

	id, err := s.service.Finalize(s.ctx)
	s.Require().NoError(err)
	s.Equal(uint64(6), id)
}

// =============================================================================
// Audit trail
// =============================================================================

func (s *ContestServiceSuite) TestAuditTrail() {
	auditor := mocks.NewMockAuditor(s.ctrl)
	svc, err := New(s.store, s.extractor, s.oracle, s.ledger, WithAuditor(auditor))
	s.Require().NoError(err)

	s.Run("registration", func() {
		req := s.registerRequest()
		hash := sha3.Sum256(req.Image)
		features := withOffset(2, 9)

		s.extractor.EXPECT().ExtractDiscrete(gomock.Any(), gomock.Any()).Return(discreteSuccess(features), nil)
		s.ledger.EXPECT().LatestContestID(gomock.Any()).Return(uint64(8), nil)
		s.oracle.EXPECT().Publish(gomock.Any(), hash, features).Return(false, nil)
		s.store.EXPECT().SaveParticipant(gomock.Any(), gomock.Any()).Return(false, nil)
		s.ledger.EXPECT().IsParticipantRegistered(gomock.Any(), uint64(8), hash).Return(true, nil)

		var got audit.Event
		auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Do(func(_ context.Context, e audit.Event) { got = e })

		_, err := svc.Register(s.ctx, req)
		s.Require().NoError(err)
		s.Equal(audit.ActionParticipantRegistered, got.Action)
		s.Equal(hex.EncodeToString(hash[:]), got.Subject)
		s.Equal("8", got.Detail["contest_id"])
		s.Equal("false", got.Detail["register_sent"])
		s.Equal(s.submitter.Hex(), got.Detail["reward_address"])
	})

	s.Run("finalize", func() {
		s.ledger.EXPECT().LatestContestID(gomock.Any()).Return(uint64(8), nil)
		s.ledger.EXPECT().FinalizeContest(gomock.Any(), uint64(8)).Return(nil)
		auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Do(func(_ context.Context, e audit.Event) {
			s.Equal(audit.ActionContestFinalized, e.Action)
			s.Equal("8", e.Subject)
		})

		_, err := svc.Finalize(s.ctx)
		s.Require().NoError(err)
	})

	s.Run("rejected registration is not audited", func() {
		req := s.registerRequest()
		req.Proof = json.RawMessage(`{}`)
		auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.Register(s.ctx, req)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}
