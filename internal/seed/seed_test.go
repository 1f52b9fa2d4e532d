package seed

import (
	"testing"

	"github.com/funkydonkey/fatherhood-is/internal/database"
	"github.com/funkydonkey/fatherhood-is/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestSeedCreatesRequestedCounts(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Seed(db, Options{NumUsers: 5, NumPosts: 12}))

	var users, posts int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	assert.Equal(t, int64(5), users)
	assert.Equal(t, int64(12), posts)

	var published int64
	require.NoError(t, db.Model(&models.Post{}).Where("is_published = ?", true).Count(&published).Error)
	assert.Equal(t, posts, published)
}

func TestSeedCleanRemovesPreviousData(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Seed(db, Options{NumUsers: 2, NumPosts: 3}))
	require.NoError(t, Seed(db, Options{NumUsers: 1, NumPosts: 1, ShouldClean: true}))

	var users, posts int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	assert.Equal(t, int64(1), users)
	assert.Equal(t, int64(1), posts)
}

func TestSeedCommentsReferenceSeededRows(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Seed(db, Options{NumUsers: 3, NumPosts: 20}))

	var comments []models.Comment
	require.NoError(t, db.Find(&comments).Error)
	for _, c := range comments {
		var post models.Post
		assert.NoError(t, db.First(&post, "id = ?", c.PostID).Error)
		var user models.User
		assert.NoError(t, db.First(&user, "id = ?", c.UserID).Error)
	}
}
