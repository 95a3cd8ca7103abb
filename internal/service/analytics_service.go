package service

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/walberluis/e-learning-platform-lua-walber/internal/model"
	"github.com/walberluis/e-learning-platform-lua-walber/internal/repository"
	"github.com/walberluis/e-learning-platform-lua-walber/internal/util"
	"gorm.io/gorm"
)

// AnalyticsService aggregates performance records into per-user and
// per-trilha statistics.
type AnalyticsService struct {
	PerformanceRepo *repository.PerformanceRepository
	TrilhaRepo      *repository.TrilhaRepository

	// now is swappable for streak tests.
	now func() time.Time
}

func NewAnalyticsService(perfRepo *repository.PerformanceRepository, trilhaRepo *repository.TrilhaRepository) *AnalyticsService {
	return &AnalyticsService{
		PerformanceRepo: perfRepo,
		TrilhaRepo:      trilhaRepo,
		now:             time.Now,
	}
}

// ComputeLearningAnalytics builds the user's learning summary over all
// records plus the trailing windowDays. A user with no records gets a
// zero-valued summary with HasData=false, not an error.
func (s *AnalyticsService) ComputeLearningAnalytics(userID uint, windowDays int) (*model.AnalyticsSummary, error) {
	if windowDays <= 0 {
		windowDays = 30
	}

	all, err := s.PerformanceRepo.FindByUser(userID, 0)
	if err != nil {
		return nil, err
	}

	summary := &model.AnalyticsSummary{
		UserID:             userID,
		AnalysisPeriodDays: windowDays,
	}
	if len(all) == 0 {
		return summary, nil
	}
	summary.HasData = true

	cutoff := s.now().AddDate(0, 0, -windowDays)
	var recent []model.Performance
	for _, p := range all {
		if !p.UpdatedAt.Before(cutoff) {
			recent = append(recent, p)
		}
	}

	summary.TotalActivities = len(all)
	summary.RecentActivities = len(recent)

	var totalMinutes, recentMinutes int
	for _, p := range all {
		if p.Completed() {
			summary.CompletedCount++
		}
		totalMinutes += p.TempoEst
	}
	for _, p := range recent {
		if p.Completed() {
			summary.RecentCompleted++
		}
		recentMinutes += p.TempoEst
	}

	summary.CompletionRate = round2(float64(summary.CompletedCount) / float64(len(all)) * 100)
	summary.AvgProgressAllTime = round2(avgProgress(all))
	summary.AvgProgressRecent = round2(avgProgress(recent))
	summary.AvgGradeAllTime = round2(avgGrade(all))
	summary.AvgGradeRecent = round2(avgGrade(recent))
	summary.TotalStudyHours = round2(float64(totalMinutes) / 60)
	summary.RecentStudyHours = round2(float64(recentMinutes) / 60)
	summary.DailyAvgStudyHours = round2(float64(recentMinutes) / float64(windowDays) / 60)
	summary.LearningStreak = s.learningStreak(all)

	return summary, nil
}

// learningStreak counts consecutive calendar days with at least one
// performance update, ending at the most recent activity date. An inactive
// user keeps the streak they had on their last active day; whether that
// should decay toward zero instead is a product call this deliberately does
// not make.
func (s *AnalyticsService) learningStreak(perfs []model.Performance) int {
	if len(perfs) == 0 {
		return 0
	}

	seen := make(map[time.Time]bool)
	for _, p := range perfs {
		seen[truncateToDay(p.UpdatedAt)] = true
	}

	dates := make([]time.Time, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sortDatesDesc(dates)

	streak := 1
	prev := dates[0]
	for _, d := range dates[1:] {
		if prev.AddDate(0, 0, -1).Equal(d) {
			streak++
			prev = d
		} else {
			break
		}
	}
	return streak
}

// TrilhaProgress summarizes one user's progress across a trilha. The
// completion rate is over all of the trilha's content items.
func (s *AnalyticsService) TrilhaProgress(userID, trilhaID uint) (*model.TrilhaProgress, error) {
	conteudoIDs, err := s.TrilhaRepo.ConteudoIDs(trilhaID)
	if err != nil {
		return nil, err
	}

	perfs, err := s.PerformanceRepo.FindByUserForConteudos(userID, conteudoIDs)
	if err != nil {
		return nil, err
	}

	progress := &model.TrilhaProgress{
		UserID:       userID,
		TrilhaID:     trilhaID,
		TotalContent: len(conteudoIDs),
	}

	var minutes int
	for _, p := range perfs {
		if p.Completed() {
			progress.CompletedCount++
		}
		minutes += p.TempoEst
	}
	if progress.TotalContent > 0 {
		progress.CompletionRate = round2(float64(progress.CompletedCount) / float64(progress.TotalContent) * 100)
	}
	progress.AverageProgress = round2(avgProgress(perfs))
	progress.AverageGrade = round2(avgGrade(perfs))
	progress.StudyMinutes = minutes
	progress.StudyHours = round2(float64(minutes) / 60)

	return progress, nil
}

// TrilhaStatistics aggregates every learner's records on one trilha.
func (s *AnalyticsService) TrilhaStatistics(trilhaID uint) (*model.TrilhaStatistics, error) {
	trilha, err := s.TrilhaRepo.FindWithConteudos(trilhaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTrilhaNotFound
		}
		return nil, err
	}

	enrollments, err := s.TrilhaRepo.CountEnrollments(trilhaID)
	if err != nil {
		return nil, err
	}

	conteudoIDs := make([]uint, len(trilha.Conteudos))
	for i, c := range trilha.Conteudos {
		conteudoIDs[i] = c.ID
	}

	perfs, err := s.PerformanceRepo.FindByConteudos(conteudoIDs)
	if err != nil {
		return nil, err
	}

	stats := &model.TrilhaStatistics{
		TrilhaID:         trilhaID,
		Titulo:           trilha.Titulo,
		Dificuldade:      trilha.Dificuldade,
		TotalEnrollments: int(enrollments),
		TotalContent:     len(trilha.Conteudos),
	}

	if len(perfs) > 0 {
		var minutes, completed int
		for _, p := range perfs {
			if p.Completed() {
				completed++
			}
			minutes += p.TempoEst
		}
		stats.AverageProgress = round2(avgProgress(perfs))
		stats.AverageGrade = round2(avgGrade(perfs))
		stats.CompletionRate = round2(float64(completed) / float64(len(perfs)) * 100)
		stats.StudyMinutes = minutes
		stats.StudyHours = round2(float64(minutes) / 60)
	}

	return stats, nil
}

// TrilhaCompletionStats buckets the trilha's enrolled users into completed,
// in-progress and not-started.
func (s *AnalyticsService) TrilhaCompletionStats(trilhaID uint) (*model.TrilhaCompletionStats, error) {
	trilha, err := s.TrilhaRepo.FindByID(trilhaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTrilhaNotFound
		}
		return nil, err
	}

	var enrolled []uint
	if err := s.TrilhaRepo.DB.Table("user_trilhas").
		Where("trilha_id = ?", trilhaID).
		Pluck("user_id", &enrolled).Error; err != nil {
		return nil, err
	}

	stats := &model.TrilhaCompletionStats{
		TrilhaID:   trilhaID,
		Titulo:     trilha.Titulo,
		TotalUsers: len(enrolled),
	}
	if len(enrolled) == 0 {
		return stats, nil
	}

	conteudoIDs, err := s.TrilhaRepo.ConteudoIDs(trilhaID)
	if err != nil {
		return nil, err
	}
	perfs, err := s.PerformanceRepo.FindByConteudos(conteudoIDs)
	if err != nil {
		return nil, err
	}

	completed := make(map[uint]bool)
	started := make(map[uint]bool)
	for _, p := range perfs {
		if p.Completed() {
			completed[p.UserID] = true
		}
		if p.Progresso > 0 {
			started[p.UserID] = true
		}
	}

	for _, uid := range enrolled {
		switch {
		case completed[uid]:
			stats.Completed++
		case started[uid]:
			stats.InProgress++
		default:
			stats.NotStarted++
		}
	}

	stats.CompletionRate = round2(float64(stats.Completed) / float64(stats.TotalUsers) * 100)
	stats.EngagementRate = round2(float64(stats.Completed+stats.InProgress) / float64(stats.TotalUsers) * 100)

	return stats, nil
}

// TopPerformers ranks users by "progress", "grade" or "study_time".
func (s *AnalyticsService) TopPerformers(metric string, limit int) ([]model.TopPerformer, error) {
	switch metric {
	case "progress", "grade", "study_time":
	default:
		return nil, util.ErrInvalidMetric
	}
	if limit <= 0 {
		limit = 10
	}
	return s.PerformanceRepo.TopPerformers(metric, limit)
}

func avgProgress(perfs []model.Performance) float64 {
	if len(perfs) == 0 {
		return 0
	}
	var sum float64
	for _, p := range perfs {
		sum += p.Progresso
	}
	return sum / float64(len(perfs))
}

// avgGrade averages only over records that carry a grade.
func avgGrade(perfs []model.Performance) float64 {
	var sum float64
	var n int
	for _, p := range perfs {
		if p.Nota != nil {
			sum += *p.Nota
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sortDatesDesc(dates []time.Time) {
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
