package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/roomdraw/internal/housing"
	"github.com/mmynk/roomdraw/internal/metrics"
	"github.com/mmynk/roomdraw/internal/models"
	"github.com/mmynk/roomdraw/internal/storage"
	"github.com/mmynk/roomdraw/pkg/rpc"
	"github.com/mmynk/roomdraw/pkg/rpc/rpcconnect"
)

// DrawService implements the Connect DrawService: draw phases, the
// lottery, and the reports administrators watch while a draw runs.
type DrawService struct {
	store      storage.Store
	randomizer housing.LotteryRandomizer
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

var _ rpcconnect.DrawServiceHandler = (*DrawService)(nil)

// NewDrawService creates a new DrawService.
func NewDrawService(store storage.Store, randomizer housing.LotteryRandomizer, m *metrics.Metrics, logger *slog.Logger) *DrawService {
	return &DrawService{
		store:      store,
		randomizer: randomizer,
		metrics:    m,
		logger:     logger,
	}
}

// CreateDraw creates a draw in the draft phase.
func (s *DrawService) CreateDraw(ctx context.Context, req *connect.Request[rpc.CreateDrawRequest]) (*connect.Response[rpc.DrawResponse], error) {
	s.logger.Info("CreateDraw request", "name", req.Msg.Name)

	if err := requireAdmin(ctx); err != nil {
		return nil, connectError(err)
	}
	if req.Msg.Name == "" {
		return nil, invalidArgument("name required")
	}

	draw := &models.Draw{Name: req.Msg.Name}
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		return tx.CreateDraw(ctx, draw)
	})
	if err != nil {
		s.logger.Error("CreateDraw failed", "error", err)
		return nil, connectError(err)
	}

	s.logger.Info("Draw created", "draw_id", draw.ID)
	return connect.NewResponse(&rpc.DrawResponse{Draw: drawMessage(draw)}), nil
}

// Activate opens a draft draw for group formation.
func (s *DrawService) Activate(ctx context.Context, req *connect.Request[rpc.DrawRequest]) (*connect.Response[rpc.DrawResponse], error) {
	s.logger.Info("Activate request", "draw_id", req.Msg.DrawID)

	return s.transition(ctx, req.Msg.DrawID, func(tx storage.Tx, draw *models.Draw) error {
		if draw.Status != models.DrawDraft {
			return fmt.Errorf("%w: draw %s is in %s", housing.ErrAlreadyActive, draw.ID, draw.Status)
		}
		return s.move(ctx, tx, draw, models.DrawPreLottery)
	})
}

// StartLottery closes group formation. Every group of the draw must be locked.
func (s *DrawService) StartLottery(ctx context.Context, req *connect.Request[rpc.DrawRequest]) (*connect.Response[rpc.DrawResponse], error) {
	s.logger.Info("StartLottery request", "draw_id", req.Msg.DrawID)

	return s.transition(ctx, req.Msg.DrawID, func(tx storage.Tx, draw *models.Draw) error {
		if draw.Status != models.DrawPreLottery {
			return fmt.Errorf("%w: draw %s is in %s", housing.ErrNotLotteryReady, draw.ID, draw.Status)
		}
		groups, err := tx.ListGroups(ctx, draw.ID)
		if err != nil {
			return err
		}
		if len(groups) == 0 {
			return fmt.Errorf("%w: draw %s has no groups", housing.ErrNotLotteryReady, draw.ID)
		}
		var unlocked []string
		for _, g := range groups {
			if g.Status != models.GroupLocked {
				unlocked = append(unlocked, g.ID)
			}
		}
		if len(unlocked) > 0 {
			return fmt.Errorf("%w: groups %v are not locked", housing.ErrNotLotteryReady, unlocked)
		}
		return s.move(ctx, tx, draw, models.DrawLottery)
	})
}

// AssignLotteryNumbers ranks every group and ungrouped on-campus student of
// the draw. It runs once per draw; later calls fail without reshuffling.
func (s *DrawService) AssignLotteryNumbers(ctx context.Context, req *connect.Request[rpc.DrawRequest]) (*connect.Response[rpc.AssignLotteryNumbersResponse], error) {
	drawID := req.Msg.DrawID
	s.logger.Info("AssignLotteryNumbers request", "draw_id", drawID)

	if err := requireAdmin(ctx); err != nil {
		return nil, connectError(err)
	}

	var (
		draw     *models.Draw
		entrants []models.Entrant
		ranks    map[string]int
	)
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		draw, err = tx.GetDraw(ctx, drawID)
		if err != nil {
			return err
		}
		if draw.LotteryAssigned {
			return fmt.Errorf("%w: draw %s", housing.ErrAlreadyAssigned, draw.ID)
		}
		if draw.Status != models.DrawLottery {
			return fmt.Errorf("%w: draw %s is in %s", housing.ErrNotLotteryReady, draw.ID, draw.Status)
		}
		if err := tx.MarkLotteryAssigned(ctx, draw.ID); err != nil {
			if errors.Is(err, storage.ErrConflict) {
				return fmt.Errorf("%w: draw %s", housing.ErrAlreadyAssigned, draw.ID)
			}
			return err
		}

		groups, err := tx.ListGroups(ctx, draw.ID)
		if err != nil {
			return err
		}
		students, err := tx.ListStudents(ctx, draw.ID)
		if err != nil {
			return err
		}
		entrants = housing.LotteryEntrants(students, groups)

		ranks, err = housing.Rank(ctx, s.randomizer, entrants)
		if err != nil {
			return err
		}
		for _, e := range entrants {
			if err := tx.SetLotteryNumber(ctx, e, ranks[e.Key()]); err != nil {
				return err
			}
		}

		draw.LotteryAssigned = true
		return s.move(ctx, tx, draw, models.DrawSuiteSelection)
	})
	s.metrics.Lottery(len(entrants), err)
	if err != nil {
		s.logger.Error("AssignLotteryNumbers failed", "draw_id", drawID, "error", err)
		return nil, connectError(err)
	}

	numbers := make([]rpc.LotteryNumber, len(entrants))
	for i, e := range entrants {
		numbers[i] = rpc.LotteryNumber{
			GroupID:   e.GroupID,
			StudentID: e.StudentID,
			Number:    ranks[e.Key()],
		}
	}

	s.logger.Info("Lottery numbers assigned", "draw_id", drawID, "entrants", len(entrants))
	return connect.NewResponse(&rpc.AssignLotteryNumbersResponse{
		Draw:    drawMessage(draw),
		Numbers: numbers,
	}), nil
}

// OpenSuiteSizes lists the sizes that still have an unassigned suite in the draw.
func (s *DrawService) OpenSuiteSizes(ctx context.Context, req *connect.Request[rpc.DrawRequest]) (*connect.Response[rpc.OpenSuiteSizesResponse], error) {
	var sizes []int
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		if _, err := tx.GetDraw(ctx, req.Msg.DrawID); err != nil {
			return err
		}
		var err error
		sizes, err = tx.OpenSuiteSizes(ctx, req.Msg.DrawID)
		return err
	})
	if err != nil {
		s.logger.Error("OpenSuiteSizes failed", "draw_id", req.Msg.DrawID, "error", err)
		return nil, connectError(err)
	}
	if sizes == nil {
		sizes = []int{}
	}
	return connect.NewResponse(&rpc.OpenSuiteSizesResponse{Sizes: sizes}), nil
}

// SuiteSummary counts the draw's suites per size.
func (s *DrawService) SuiteSummary(ctx context.Context, req *connect.Request[rpc.DrawRequest]) (*connect.Response[rpc.SuiteSummaryResponse], error) {
	if _, err := s.store.GetDraw(ctx, req.Msg.DrawID); err != nil {
		return nil, connectError(err)
	}
	suites, err := s.store.ListSuites(ctx, req.Msg.DrawID)
	if err != nil {
		s.logger.Error("SuiteSummary failed", "draw_id", req.Msg.DrawID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&rpc.SuiteSummaryResponse{Sizes: sizeSummaries(suites)}), nil
}

// StudentSummary counts the draw's students by intent and grouping.
func (s *DrawService) StudentSummary(ctx context.Context, req *connect.Request[rpc.DrawRequest]) (*connect.Response[rpc.StudentSummaryResponse], error) {
	if _, err := s.store.GetDraw(ctx, req.Msg.DrawID); err != nil {
		return nil, connectError(err)
	}
	students, err := s.store.ListStudents(ctx, req.Msg.DrawID)
	if err != nil {
		return nil, connectError(err)
	}
	groups, err := s.store.ListGroups(ctx, req.Msg.DrawID)
	if err != nil {
		return nil, connectError(err)
	}

	summary := housing.SummarizeStudents(students, groups)
	byIntent := make(map[string]int, len(summary.ByIntent))
	for intent, n := range summary.ByIntent {
		byIntent[string(intent)] = n
	}
	return connect.NewResponse(&rpc.StudentSummaryResponse{
		ByIntent:  byIntent,
		Grouped:   summary.Grouped,
		Ungrouped: summary.Ungrouped,
	}), nil
}

// RegisterStudent adds a student to the directory.
func (s *DrawService) RegisterStudent(ctx context.Context, req *connect.Request[rpc.RegisterStudentRequest]) (*connect.Response[rpc.RegisterStudentResponse], error) {
	s.logger.Info("RegisterStudent request", "email", req.Msg.Email, "draw_id", req.Msg.DrawID)

	if err := requireAdmin(ctx); err != nil {
		return nil, connectError(err)
	}

	student := &models.Student{
		ID:     req.Msg.ID,
		Name:   req.Msg.Name,
		Email:  req.Msg.Email,
		Role:   models.Role(req.Msg.Role),
		Intent: models.Intent(req.Msg.Intent),
		DrawID: req.Msg.DrawID,
	}
	if student.Name == "" || student.Email == "" {
		return nil, invalidArgument("name and email required")
	}
	if student.Role != "" && !student.Role.Valid() {
		return nil, invalidArgument("unknown role %q", student.Role)
	}
	if student.Intent != "" && !student.Intent.Valid() {
		return nil, invalidArgument("unknown intent %q", student.Intent)
	}

	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		if student.DrawID != "" {
			if _, err := tx.GetDraw(ctx, student.DrawID); err != nil {
				return err
			}
		}
		return tx.CreateStudent(ctx, student)
	})
	if err != nil {
		s.logger.Error("RegisterStudent failed", "email", student.Email, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&rpc.RegisterStudentResponse{StudentID: student.ID}), nil
}

// AddSuite adds a suite to the catalog, optionally offered in a draw.
func (s *DrawService) AddSuite(ctx context.Context, req *connect.Request[rpc.AddSuiteRequest]) (*connect.Response[rpc.AddSuiteResponse], error) {
	s.logger.Info("AddSuite request", "number", req.Msg.Number, "size", req.Msg.Size, "draw_id", req.Msg.DrawID)

	if err := requireAdmin(ctx); err != nil {
		return nil, connectError(err)
	}
	if req.Msg.Size <= 0 {
		return nil, connectError(fmt.Errorf("%w: suite size must be positive, got %d", housing.ErrInvalidSize, req.Msg.Size))
	}

	suite := &models.Suite{
		Number:   req.Msg.Number,
		Building: req.Msg.Building,
		Size:     req.Msg.Size,
		DrawID:   req.Msg.DrawID,
	}
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		if suite.DrawID != "" {
			if _, err := tx.GetDraw(ctx, suite.DrawID); err != nil {
				return err
			}
		}
		return tx.CreateSuite(ctx, suite)
	})
	if err != nil {
		s.logger.Error("AddSuite failed", "number", suite.Number, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&rpc.AddSuiteResponse{SuiteID: suite.ID}), nil
}

// UpdateStudent changes a student's intent or draw while group formation is
// open. A grouped student keeps their draw and stays on campus. Leaving the
// draw or the on-campus intent withdraws the student's pending requests and
// invitations.
func (s *DrawService) UpdateStudent(ctx context.Context, req *connect.Request[rpc.UpdateStudentRequest]) (*connect.Response[rpc.UpdateStudentResponse], error) {
	msg := req.Msg
	studentID := callerOr(ctx, msg.StudentID)
	s.logger.Info("UpdateStudent request", "student_id", studentID, "intent", msg.Intent)

	if err := requireSelf(ctx, studentID); err != nil {
		return nil, connectError(err)
	}
	if msg.DrawID != nil {
		if err := requireAdmin(ctx); err != nil {
			return nil, connectError(err)
		}
	}
	intent := models.Intent(msg.Intent)
	if intent != "" && !intent.Valid() {
		return nil, invalidArgument("unknown intent %q", intent)
	}

	var student *models.Student
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		student, err = tx.GetStudent(ctx, studentID)
		if err != nil {
			return err
		}

		drawChange := msg.DrawID != nil && *msg.DrawID != student.DrawID
		leavesCampus := intent != "" && intent != models.IntentOnCampus && student.Intent == models.IntentOnCampus

		m, err := tx.FullMembershipOf(ctx, studentID)
		if err != nil {
			return err
		}
		if m != nil && (drawChange || leavesCampus) {
			return fmt.Errorf("%w: %s belongs to group %s", housing.ErrInvalidTransition, studentID, m.GroupID)
		}

		if student.DrawID != "" {
			if err := checkDrawForming(ctx, tx, student.DrawID); err != nil {
				return err
			}
		}
		if drawChange && *msg.DrawID != "" {
			if err := checkDrawForming(ctx, tx, *msg.DrawID); err != nil {
				return err
			}
		}

		if drawChange || leavesCampus {
			if _, err := tx.DeletePendingMemberships(ctx, studentID, ""); err != nil {
				return err
			}
		}
		if intent != "" {
			student.Intent = intent
		}
		if drawChange {
			student.DrawID = *msg.DrawID
		}
		return tx.UpdateStudent(ctx, student)
	})
	if err != nil {
		s.logger.Error("UpdateStudent failed", "student_id", studentID, "error", err)
		return nil, connectError(err)
	}

	s.logger.Info("Student updated", "student_id", student.ID, "intent", student.Intent, "draw_id", student.DrawID)
	return connect.NewResponse(&rpc.UpdateStudentResponse{Student: studentMessage(student)}), nil
}

// OfferSuites adds unassigned suites to a draw or withdraws them while group
// formation is open.
func (s *DrawService) OfferSuites(ctx context.Context, req *connect.Request[rpc.OfferSuitesRequest]) (*connect.Response[rpc.SuiteSummaryResponse], error) {
	msg := req.Msg
	s.logger.Info("OfferSuites request", "draw_id", msg.DrawID, "add", len(msg.AddSuiteIDs), "remove", len(msg.RemoveSuiteIDs))

	if err := requireAdmin(ctx); err != nil {
		return nil, connectError(err)
	}

	var suites []*models.Suite
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		if err := checkDrawForming(ctx, tx, msg.DrawID); err != nil {
			return err
		}
		for _, id := range msg.AddSuiteIDs {
			suite, err := tx.GetSuite(ctx, id)
			if err != nil {
				return err
			}
			if suite.DrawID == msg.DrawID {
				continue
			}
			if suite.GroupID != "" || suite.DrawID != "" {
				return fmt.Errorf("%w: suite %s is assigned or offered elsewhere", housing.ErrInvalidTransition, id)
			}
			if err := tx.OfferSuite(ctx, id, msg.DrawID); err != nil {
				return err
			}
		}
		for _, id := range msg.RemoveSuiteIDs {
			suite, err := tx.GetSuite(ctx, id)
			if err != nil {
				return err
			}
			if suite.DrawID != msg.DrawID {
				return fmt.Errorf("%w: suite %s is not offered in draw %s", housing.ErrInvalidTransition, id, msg.DrawID)
			}
			if suite.GroupID != "" {
				return fmt.Errorf("%w: suite %s is assigned to group %s", housing.ErrInvalidTransition, id, suite.GroupID)
			}
			if err := tx.OfferSuite(ctx, id, ""); err != nil {
				return err
			}
		}
		var err error
		suites, err = tx.ListSuites(ctx, msg.DrawID)
		return err
	})
	if err != nil {
		s.logger.Error("OfferSuites failed", "draw_id", msg.DrawID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&rpc.SuiteSummaryResponse{Sizes: sizeSummaries(suites)}), nil
}

// transition runs an administrative phase change of a draw in one transaction.
func (s *DrawService) transition(ctx context.Context, drawID string, change func(tx storage.Tx, draw *models.Draw) error) (*connect.Response[rpc.DrawResponse], error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, connectError(err)
	}

	var draw *models.Draw
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		draw, err = tx.GetDraw(ctx, drawID)
		if err != nil {
			return err
		}
		return change(tx, draw)
	})
	if err != nil {
		s.logger.Error("Draw transition failed", "draw_id", drawID, "error", err)
		return nil, connectError(err)
	}

	s.logger.Info("Draw transitioned", "draw_id", draw.ID, "status", draw.Status)
	return connect.NewResponse(&rpc.DrawResponse{Draw: drawMessage(draw)}), nil
}

// move advances the draw to the next phase, guarding against a concurrent move.
func (s *DrawService) move(ctx context.Context, tx storage.Tx, draw *models.Draw, to models.DrawStatus) error {
	if err := tx.TransitionDraw(ctx, draw.ID, draw.Status, to); err != nil {
		return err
	}
	draw.Status = to
	return nil
}
