package model

// Performance (desempenho) links a user to a content item with progress,
// grade and accumulated study time. One row per (user, conteudo).
//
// Progress is monotonically non-decreasing: updates store max(old, new).
// Grade is overwritten when supplied; study time accumulates.
// swagger:model Performance
type Performance struct {
	BaseModel
	UserID     uint      `gorm:"not null;uniqueIndex:idx_user_conteudo" json:"userId"`
	ConteudoID uint      `gorm:"not null;uniqueIndex:idx_user_conteudo" json:"conteudoId"`
	Progresso  float64   `gorm:"default:0" json:"progresso"`
	Nota       *float64  `json:"nota,omitempty"`
	TempoEst   int       `gorm:"column:tempo_estudo;default:0" json:"tempoEstudo"`
	Conteudo   *Conteudo `gorm:"foreignKey:ConteudoID" json:"conteudo,omitempty"`
}

func (Performance) TableName() string {
	return "desempenhos"
}

// Completed reports whether this content item has been brought to 100%.
func (p *Performance) Completed() bool {
	return p.Progresso >= 100
}
