package service

import (
	"errors"

	"go.uber.org/zap"

	"github.com/walberluis/e-learning-platform-lua-walber/internal/model"
	"github.com/walberluis/e-learning-platform-lua-walber/internal/repository"
	"github.com/walberluis/e-learning-platform-lua-walber/internal/util"
	"github.com/walberluis/e-learning-platform-lua-walber/pkg/logger"

	"gorm.io/gorm"
)

// ConteudoProgress is one content item annotated with the requesting user's
// progress, when any exists.
// swagger:model ConteudoProgress
type ConteudoProgress struct {
	Conteudo  model.Conteudo `json:"conteudo"`
	Progresso float64        `json:"progresso"`
	Nota      *float64       `json:"nota,omitempty"`
	TempoEst  int            `json:"tempoEstudoMinutos"`
	Completed bool           `json:"completed"`
}

// TrilhaContent is a trilha with its items and the user's per-item progress.
// swagger:model TrilhaContent
type TrilhaContent struct {
	Trilha    model.Trilha       `json:"trilha"`
	Conteudos []ConteudoProgress `json:"conteudos"`
}

// LearningPathEntry pairs an enrolled trilha with the user's aggregate
// progress on it.
// swagger:model LearningPathEntry
type LearningPathEntry struct {
	Trilha   model.Trilha          `json:"trilha"`
	Progress *model.TrilhaProgress `json:"progress"`
}

// ContentService covers the trilha catalog, enrollment and progress updates.
type ContentService struct {
	TrilhaRepo      *repository.TrilhaRepository
	UserRepo        *repository.UserRepository
	PerformanceRepo *repository.PerformanceRepository
	Analytics       *AnalyticsService
}

func NewContentService(
	trilhaRepo *repository.TrilhaRepository,
	userRepo *repository.UserRepository,
	perfRepo *repository.PerformanceRepository,
	analytics *AnalyticsService,
) *ContentService {
	return &ContentService{
		TrilhaRepo:      trilhaRepo,
		UserRepo:        userRepo,
		PerformanceRepo: perfRepo,
		Analytics:       analytics,
	}
}

func (s *ContentService) CreateTrilha(criadorID uint, titulo, dificuldade string) (*model.Trilha, error) {
	if !util.ValidDifficulty(dificuldade) {
		return nil, errors.New("unknown difficulty tier")
	}
	trilha := &model.Trilha{
		Titulo:      titulo,
		Dificuldade: dificuldade,
		CriadorID:   &criadorID,
	}
	if err := s.TrilhaRepo.Create(trilha); err != nil {
		return nil, err
	}
	return trilha, nil
}

func (s *ContentService) GetTrilha(trilhaID uint) (*model.Trilha, error) {
	trilha, err := s.TrilhaRepo.FindWithConteudos(trilhaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTrilhaNotFound
		}
		return nil, err
	}
	return trilha, nil
}

func (s *ContentService) ListTrilhas(difficulty string, page, limit int) ([]model.Trilha, int64, error) {
	if difficulty != "" && !util.ValidDifficulty(difficulty) {
		return nil, 0, errors.New("unknown difficulty tier")
	}
	return s.TrilhaRepo.List(difficulty, page, limit)
}

func (s *ContentService) SearchTrilhas(term string, limit int) ([]model.Trilha, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.TrilhaRepo.Search(term, limit)
}

func (s *ContentService) UpdateTrilha(trilhaID uint, titulo, dificuldade string) (*model.Trilha, error) {
	trilha, err := s.TrilhaRepo.FindByID(trilhaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTrilhaNotFound
		}
		return nil, err
	}

	if titulo != "" {
		trilha.Titulo = titulo
	}
	if dificuldade != "" {
		if !util.ValidDifficulty(dificuldade) {
			return nil, errors.New("unknown difficulty tier")
		}
		trilha.Dificuldade = dificuldade
	}

	if err := s.TrilhaRepo.Update(trilha); err != nil {
		return nil, err
	}
	return trilha, nil
}

func (s *ContentService) PopularTrilhas(limit int) ([]model.PopularTrilha, error) {
	if limit <= 0 || limit > 20 {
		limit = 5
	}
	return s.TrilhaRepo.PopularCached(limit)
}

// Enroll adds the user to the trilha. Enrolling twice is an error rather
// than a silent no-op.
func (s *ContentService) Enroll(userID, trilhaID uint) error {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}

	trilha, err := s.TrilhaRepo.FindByID(trilhaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrTrilhaNotFound
		}
		return err
	}

	enrolled, err := s.TrilhaRepo.IsEnrolled(userID, trilhaID)
	if err != nil {
		return err
	}
	if enrolled {
		return util.ErrAlreadyEnrolled
	}

	return s.TrilhaRepo.Enroll(user, trilha)
}

func (s *ContentService) AddConteudo(trilhaID uint, titulo, tipo, material string) (*model.Conteudo, error) {
	if _, err := s.TrilhaRepo.FindByID(trilhaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTrilhaNotFound
		}
		return nil, err
	}

	conteudo := &model.Conteudo{
		Titulo:   titulo,
		Tipo:     tipo,
		Material: material,
		TrilhaID: trilhaID,
	}
	if err := s.TrilhaRepo.CreateConteudo(conteudo); err != nil {
		return nil, err
	}
	return conteudo, nil
}

// UpdateProgress records a progress update on one content item. Stored
// progress is monotone (max of old and new), grades overwrite, study time
// accumulates. Reaching 100% triggers a trilha completion check.
func (s *ContentService) UpdateProgress(userID, conteudoID uint, progresso float64, nota *float64, tempoEstudo int) (*model.Performance, error) {
	if progresso < 0 || progresso > 100 {
		return nil, util.ErrInvalidProgress
	}
	if nota != nil && (*nota < 0 || *nota > 100) {
		return nil, util.ErrInvalidGrade
	}
	if tempoEstudo < 0 {
		tempoEstudo = 0
	}

	conteudo, err := s.TrilhaRepo.FindConteudoByID(conteudoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrConteudoNotFound
		}
		return nil, err
	}

	perf, err := s.PerformanceRepo.UpsertProgress(userID, conteudoID, progresso, nota, tempoEstudo)
	if err != nil {
		return nil, err
	}

	if perf.Completed() {
		s.checkTrilhaCompletion(userID, conteudo.TrilhaID)
	}
	return perf, nil
}

// checkTrilhaCompletion logs when the user has brought every item of the
// trilha to 100%. Failures here never affect the progress update itself.
func (s *ContentService) checkTrilhaCompletion(userID, trilhaID uint) {
	progress, err := s.Analytics.TrilhaProgress(userID, trilhaID)
	if err != nil {
		logger.Log.Warn("trilha completion check failed",
			zap.Uint("user_id", userID), zap.Uint("trilha_id", trilhaID), zap.Error(err))
		return
	}
	if progress.TotalContent > 0 && progress.CompletedCount == progress.TotalContent {
		logger.Log.Info("trilha completed",
			zap.Uint("user_id", userID), zap.Uint("trilha_id", trilhaID))
	}
}

// GetTrilhaContent returns the trilha's items with the user's per-item
// progress filled in.
func (s *ContentService) GetTrilhaContent(trilhaID, userID uint) (*TrilhaContent, error) {
	trilha, err := s.TrilhaRepo.FindWithConteudos(trilhaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTrilhaNotFound
		}
		return nil, err
	}

	conteudoIDs := make([]uint, len(trilha.Conteudos))
	for i, c := range trilha.Conteudos {
		conteudoIDs[i] = c.ID
	}

	perfByConteudo := make(map[uint]model.Performance)
	if userID != 0 {
		perfs, err := s.PerformanceRepo.FindByUserForConteudos(userID, conteudoIDs)
		if err != nil {
			return nil, err
		}
		for _, p := range perfs {
			perfByConteudo[p.ConteudoID] = p
		}
	}

	content := &TrilhaContent{Trilha: *trilha}
	for _, c := range trilha.Conteudos {
		item := ConteudoProgress{Conteudo: c}
		if p, ok := perfByConteudo[c.ID]; ok {
			item.Progresso = p.Progresso
			item.Nota = p.Nota
			item.TempoEst = p.TempoEst
			item.Completed = p.Completed()
		}
		content.Conteudos = append(content.Conteudos, item)
	}
	return content, nil
}

// UserLearningPath lists the user's enrolled trilhas with aggregate progress.
func (s *ContentService) UserLearningPath(userID uint) ([]LearningPathEntry, error) {
	trilhas, err := s.TrilhaRepo.EnrolledTrilhas(userID)
	if err != nil {
		return nil, err
	}

	entries := make([]LearningPathEntry, 0, len(trilhas))
	for _, t := range trilhas {
		progress, err := s.Analytics.TrilhaProgress(userID, t.ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, LearningPathEntry{Trilha: t, Progress: progress})
	}
	return entries, nil
}

// DeleteTrilha removes the trilha with its content, performance records and
// enrollment rows.
func (s *ContentService) DeleteTrilha(trilhaID uint) error {
	if _, err := s.TrilhaRepo.FindByID(trilhaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrTrilhaNotFound
		}
		return err
	}
	return s.TrilhaRepo.Delete(trilhaID)
}
