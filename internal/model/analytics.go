package model

// AnalyticsSummary aggregates a user's performance records, all-time and over
// a trailing window.
// swagger:model AnalyticsSummary
type AnalyticsSummary struct {
	UserID             uint    `json:"userId"`
	AnalysisPeriodDays int     `json:"analysisPeriodDays"`
	HasData            bool    `json:"hasData"`
	TotalActivities    int     `json:"totalActivities"`
	RecentActivities   int     `json:"recentActivities"`
	CompletedCount     int     `json:"completedActivities"`
	RecentCompleted    int     `json:"recentCompleted"`
	CompletionRate     float64 `json:"completionRate"`
	AvgProgressAllTime float64 `json:"averageProgressAllTime"`
	AvgProgressRecent  float64 `json:"averageProgressRecent"`
	AvgGradeAllTime    float64 `json:"averageGradeAllTime"`
	AvgGradeRecent     float64 `json:"averageGradeRecent"`
	TotalStudyHours    float64 `json:"totalStudyTimeHours"`
	RecentStudyHours   float64 `json:"recentStudyTimeHours"`
	DailyAvgStudyHours float64 `json:"dailyAverageStudyTime"`
	LearningStreak     int     `json:"learningStreak"`
}

// TrilhaProgress summarizes one user's progress across a trilha's content.
// swagger:model TrilhaProgress
type TrilhaProgress struct {
	UserID          uint    `json:"userId"`
	TrilhaID        uint    `json:"trilhaId"`
	TotalContent    int     `json:"totalContent"`
	CompletedCount  int     `json:"completedContent"`
	CompletionRate  float64 `json:"completionRate"`
	AverageProgress float64 `json:"averageProgress"`
	AverageGrade    float64 `json:"averageGrade"`
	StudyMinutes    int     `json:"totalStudyTimeMinutes"`
	StudyHours      float64 `json:"totalStudyTimeHours"`
}

// TrilhaStatistics is the path-wide aggregate over all learners.
// swagger:model TrilhaStatistics
type TrilhaStatistics struct {
	TrilhaID         uint    `json:"trilhaId"`
	Titulo           string  `json:"titulo"`
	Dificuldade      string  `json:"dificuldade"`
	TotalEnrollments int     `json:"totalEnrollments"`
	TotalContent     int     `json:"totalContentItems"`
	AverageProgress  float64 `json:"averageProgress"`
	AverageGrade     float64 `json:"averageGrade"`
	CompletionRate   float64 `json:"completionRate"`
	StudyMinutes     int     `json:"totalStudyTimeMinutes"`
	StudyHours       float64 `json:"totalStudyTimeHours"`
}

// TrilhaCompletionStats buckets enrolled users by completion state.
// swagger:model TrilhaCompletionStats
type TrilhaCompletionStats struct {
	TrilhaID       uint    `json:"trilhaId"`
	Titulo         string  `json:"titulo"`
	TotalUsers     int     `json:"totalUsers"`
	Completed      int     `json:"completed"`
	InProgress     int     `json:"inProgress"`
	NotStarted     int     `json:"notStarted"`
	CompletionRate float64 `json:"completionRate"`
	EngagementRate float64 `json:"engagementRate"`
}

// TopPerformer is one entry in a metric-ranked leaderboard.
// swagger:model TopPerformer
type TopPerformer struct {
	UserID          uint    `json:"userId"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	TotalActivities int     `json:"totalActivities"`
	Value           float64 `json:"value"`
	Metric          string  `json:"metric"`
}
