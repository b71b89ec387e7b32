package repositories

import (
	"testing"

	"github.com/allknee486/Impulse/internal/database"
	"github.com/allknee486/Impulse/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type CategoryRepositorySuite struct {
	suite.Suite
	db       *database.DB
	repo     CategoryRepositoryInterface
	testUser *models.User
}

func TestCategoryRepositorySuite(t *testing.T) {
	suite.Run(t, new(CategoryRepositorySuite))
}

func (s *CategoryRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewCategoryRepository(s.db.DB)
	s.testUser = database.CreateTestUser(s.T(), s.db, "categories@example.com")
}

func (s *CategoryRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *CategoryRepositorySuite) TestCreateAndGetByID() {
	category := &models.Category{
		UserID:      s.testUser.ID,
		Name:        "Groceries",
		Description: "Weekly food shopping",
		Color:       "#4CAF50",
	}
	s.Require().NoError(s.repo.Create(category))

	found, err := s.repo.GetByID(category.ID)
	s.NoError(err)
	s.Equal("Groceries", found.Name)
	s.Equal("#4CAF50", found.Color)
}

func (s *CategoryRepositorySuite) TestGetByID_NotFound() {
	found, err := s.repo.GetByID(uuid.New())
	s.ErrorIs(err, ErrCategoryNotFound)
	s.Nil(found)
}

func (s *CategoryRepositorySuite) TestGetByUserID_AlphabeticalAndScoped() {
	database.CreateTestCategory(s.T(), s.db, s.testUser, "Travel")
	database.CreateTestCategory(s.T(), s.db, s.testUser, "Food")
	database.CreateTestCategory(s.T(), s.db, s.testUser, "Shopping")

	other := database.CreateTestUser(s.T(), s.db, "other@example.com")
	database.CreateTestCategory(s.T(), s.db, other, "Bills")

	categories, err := s.repo.GetByUserID(s.testUser.ID)
	s.NoError(err)
	s.Require().Len(categories, 3)
	s.Equal("Food", categories[0].Name)
	s.Equal("Shopping", categories[1].Name)
	s.Equal("Travel", categories[2].Name)
}

func (s *CategoryRepositorySuite) TestGetByName() {
	created := database.CreateTestCategory(s.T(), s.db, s.testUser, "Food")

	found, err := s.repo.GetByName(s.testUser.ID, "Food")
	s.NoError(err)
	s.Equal(created.ID, found.ID)

	_, err = s.repo.GetByName(s.testUser.ID, "food")
	s.ErrorIs(err, ErrCategoryNotFound)
}

func (s *CategoryRepositorySuite) TestUpdate() {
	category := database.CreateTestCategory(s.T(), s.db, s.testUser, "Food")

	category.Name = "Dining"
	category.Description = "Restaurants and takeout"
	category.Color = "#FF5722"
	s.Require().NoError(s.repo.Update(category))

	found, err := s.repo.GetByID(category.ID)
	s.NoError(err)
	s.Equal("Dining", found.Name)
	s.Equal("Restaurants and takeout", found.Description)
	s.Equal("#FF5722", found.Color)
}

func (s *CategoryRepositorySuite) TestUpdate_NotFound() {
	category := &models.Category{UserID: s.testUser.ID, Name: "Ghost"}
	category.ID = uuid.New()

	s.ErrorIs(s.repo.Update(category), ErrCategoryNotFound)
}

func (s *CategoryRepositorySuite) TestDelete() {
	category := database.CreateTestCategory(s.T(), s.db, s.testUser, "Food")

	s.NoError(s.repo.Delete(category.ID))

	_, err := s.repo.GetByID(category.ID)
	s.ErrorIs(err, ErrCategoryNotFound)
}

func (s *CategoryRepositorySuite) TestDelete_NotFound() {
	s.ErrorIs(s.repo.Delete(uuid.New()), ErrCategoryNotFound)
}
