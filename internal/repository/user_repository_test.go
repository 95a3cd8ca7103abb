package repository

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/walberluis/e-learning-platform-lua-walber/internal/model"
)

func TestCreateSetsLastLogin(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	user := &model.User{Name: "Walber", Email: "walber@example.com", LearningProfile: model.ProfileBeginner}
	require.NoError(t, repo.Create(user))

	saved, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	require.False(t, saved.LastLogin.IsZero())
}

func TestUpdateLastSeen(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	user := &model.User{Name: "Walber", Email: "walber@example.com", LearningProfile: model.ProfileBeginner}
	require.NoError(t, repo.Create(user))
	require.NoError(t, repo.UpdateLastSeen(user.ID))

	saved, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	require.False(t, saved.LastLogin.IsZero())
}

func TestDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	user := &model.User{Name: "Walber", Email: "walber@example.com", LearningProfile: model.ProfileBeginner}
	require.NoError(t, repo.Create(user))

	trilha := &model.Trilha{Titulo: "Go Basics", Dificuldade: model.ProfileBeginner}
	require.NoError(t, db.Create(trilha).Error)
	require.NoError(t, db.Model(user).Association("Trilhas").Append(trilha))
	require.NoError(t, db.Create(&model.Performance{UserID: user.ID, ConteudoID: 1, Progresso: 50}).Error)

	require.NoError(t, repo.Delete(user.ID))

	_, err := repo.FindByID(user.ID)
	require.Error(t, err)

	var perfCount int64
	require.NoError(t, db.Unscoped().Model(&model.Performance{}).Where("user_id = ?", user.ID).Count(&perfCount).Error)
	require.EqualValues(t, 0, perfCount)

	var enrollCount int64
	require.NoError(t, db.Table("user_trilhas").Where("user_id = ?", user.ID).Count(&enrollCount).Error)
	require.EqualValues(t, 0, enrollCount)
}
