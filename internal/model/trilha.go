package model

// Conteudo types.
const (
	ContentVideo    = "video"
	ContentText     = "text"
	ContentQuiz     = "quiz"
	ContentExercise = "exercise"
)

// Trilha is a learning path: an ordered collection of content items at a
// given difficulty tier.
// swagger:model Trilha
type Trilha struct {
	BaseModel
	Titulo      string     `gorm:"size:200;not null" json:"titulo"`
	Dificuldade string     `gorm:"size:20;not null;index" json:"dificuldade"`
	CriadorID   *uint      `gorm:"index" json:"criadorId,omitempty"`
	Conteudos   []Conteudo `gorm:"foreignKey:TrilhaID" json:"conteudos,omitempty"`
	Usuarios    []User     `gorm:"many2many:user_trilhas" json:"-"`
}

func (Trilha) TableName() string {
	return "trilhas"
}

// swagger:model Conteudo
type Conteudo struct {
	BaseModel
	Titulo   string `gorm:"size:200;not null" json:"titulo"`
	Tipo     string `gorm:"size:50;not null" json:"tipo"`
	Material string `gorm:"type:longtext" json:"material"`
	TrilhaID uint   `gorm:"not null;index" json:"trilhaId"`
}

func (Conteudo) TableName() string {
	return "conteudos"
}

// PopularTrilha is a trilha annotated with its enrollment count.
type PopularTrilha struct {
	Trilha          Trilha `json:"trilha"`
	EnrollmentCount int64  `json:"enrollmentCount"`
}
