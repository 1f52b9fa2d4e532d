// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/funkydonkey/fatherhood-is/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var (
	// fatherhoodMoments are realistic card texts: short completions of the
	// sentence "Fatherhood is...".
	fatherhoodMoments = []string{
		"teaching her to ride a bike and running alongside just in case",
		"pretending the airplane spoon still works at age six",
		"carrying a sleeping kid from the car without waking them",
		"learning every dinosaur name all over again",
		"finding lego bricks with your bare feet at 6am",
		"reading the same bedtime story for the hundredth time",
		"standing in the rain at every single saturday match",
		"fixing the toy five minutes after saying it can't be fixed",
		"hearing your own dad jokes come out of your mouth",
		"teaching them to whistle before they can tie their shoes",
		"waiting up even though you said you wouldn't",
		"letting them win at chess until the day they really win",
		"holding the back of the seat long after you've let go",
		"turning the living room into a blanket fort on a tuesday",
		"eating the burnt pancake so they get the good one",
	}

	commentLines = []string{
		"This one got me right in the feels",
		"Been there every single morning",
		"My dad did exactly this, miss him",
		"Printing this one out for the fridge",
		"The accuracy is unreal",
		"Felt this in my soles (the lego one)",
		"Saving this for father's day",
		"Who's cutting onions in here",
		"Can confirm, the spoon airplane never retires",
		"Beautiful. Just beautiful.",
	}
)

// Seed populates the database with demo data: users, published posts with
// placeholder image URLs, and comments spread across the posts.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding database with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	gofakeit.Seed(time.Now().UnixNano())

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("failed to clear existing data: %w", err)
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	posts, err := createPosts(db, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	comments, err := createComments(db, users, posts)
	if err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}
	log.Printf("created %d comments", comments)

	return nil
}

func clearData(db *gorm.DB) error {
	// Delete in dependency order so foreign keys stay satisfied.
	for _, model := range []any{&models.Comment{}, &models.Post{}, &models.User{}} {
		if err := db.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		display := gofakeit.Name()
		avatar := fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID())
		user := &models.User{
			Username:    fmt.Sprintf("%s%d", gofakeit.Username(), i),
			DisplayName: &display,
			AvatarURL:   &avatar,
		}
		if err := db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createPosts(db *gorm.DB, n int) ([]*models.Post, error) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		text := fatherhoodMoments[r.Intn(len(fatherhoodMoments))]
		seedKey := gofakeit.UUID()

		post := &models.Post{
			Text:        text,
			ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/800/1200", seedKey),
			PreviewURL:  fmt.Sprintf("https://picsum.photos/seed/%s/480/720", seedKey),
			LikesCount:  r.Intn(200),
			IsPublished: true,
			// realistic created_at spread over the last 90 days
			CreatedAt: time.Now().Add(-time.Duration(r.Intn(90*24)) * time.Hour),
		}
		if r.Intn(3) > 0 {
			name := gofakeit.FirstName()
			post.AuthorName = &name
		}
		if err := db.Create(post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func createComments(db *gorm.DB, users []*models.User, posts []*models.Post) (int, error) {
	if len(users) == 0 || len(posts) == 0 {
		return 0, nil
	}

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	total := 0
	for _, post := range posts {
		for i := 0; i < r.Intn(6); i++ {
			comment := &models.Comment{
				PostID:    post.ID,
				UserID:    users[r.Intn(len(users))].ID,
				Content:   commentLines[r.Intn(len(commentLines))],
				CreatedAt: post.CreatedAt.Add(time.Duration(1+r.Intn(72)) * time.Hour),
			}
			if err := db.Create(comment).Error; err != nil {
				return total, err
			}
			total++
		}
	}
	return total, nil
}
