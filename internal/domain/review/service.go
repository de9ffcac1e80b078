// internal/domain/review/service.go
package review

import (
	"errors"
	"fmt"
	"math"

	"github.com/your-org/bakery-backend/internal/config"
	"github.com/your-org/bakery-backend/internal/domain/catalog"
	"github.com/your-org/bakery-backend/internal/domain/user"
	"github.com/your-org/bakery-backend/internal/pkg/apperror"
	"gorm.io/gorm"
)

// Service handles review business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new review service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{db: db, config: cfg}
}

// CreateReviewRequest represents review creation data
type CreateReviewRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
	Comment   string `json:"comment"`
}

// UpdateReviewRequest represents review update data
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

// ReviewResponse pairs a review with its author's display name
type ReviewResponse struct {
	Review
	AuthorName string `json:"author_name"`
}

// Create stores a review after verifying the product exists and the user
// has not already reviewed it, then refreshes the product's rating cache.
func (s *Service) Create(userID string, req *CreateReviewRequest) (*Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperror.Validation("rating must be between 1 and 5", map[string]string{
			"rating": "must be an integer from 1 to 5",
		})
	}

	var product catalog.Product
	if err := s.db.Where("id = ?", req.ProductID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("product")
		}
		return nil, apperror.Internal(err)
	}

	var existing Review
	err := s.db.Where("user_id = ? AND product_id = ?", userID, req.ProductID).First(&existing).Error
	if err == nil {
		return nil, apperror.Conflict("you have already reviewed this product")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Internal(err)
	}

	newReview := Review{
		UserID:    userID,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.db.Create(&newReview).Error; err != nil {
		// Two concurrent first reviews race past the pre-check; the
		// unique index decides the winner.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("you have already reviewed this product")
		}
		return nil, apperror.Internal(fmt.Errorf("failed to create review: %w", err))
	}

	if err := s.refreshProductRating(req.ProductID); err != nil {
		return nil, err
	}
	return &newReview, nil
}

// Update modifies a review. Only the author or an admin may update; the
// authorization check runs against the stored row, never client input.
func (s *Service) Update(reviewID, actorID string, actorIsAdmin bool, req *UpdateReviewRequest) (*Review, error) {
	var stored Review
	if err := s.db.Where("id = ?", reviewID).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("review")
		}
		return nil, apperror.Internal(err)
	}

	if stored.UserID != actorID && !actorIsAdmin {
		return nil, apperror.Authorization("you can only modify your own reviews")
	}

	updates := make(map[string]interface{})
	if req.Rating != nil {
		if *req.Rating < 1 || *req.Rating > 5 {
			return nil, apperror.Validation("rating must be between 1 and 5", map[string]string{
				"rating": "must be an integer from 1 to 5",
			})
		}
		updates["rating"] = *req.Rating
	}
	if req.Comment != nil {
		updates["comment"] = *req.Comment
	}

	if len(updates) > 0 {
		if err := s.db.Model(&stored).Updates(updates).Error; err != nil {
			return nil, apperror.Internal(fmt.Errorf("failed to update review: %w", err))
		}
		if err := s.refreshProductRating(stored.ProductID); err != nil {
			return nil, err
		}
	}
	return &stored, nil
}

// Delete removes a review. Only the author or an admin may delete.
func (s *Service) Delete(reviewID, actorID string, actorIsAdmin bool) error {
	var stored Review
	if err := s.db.Where("id = ?", reviewID).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("review")
		}
		return apperror.Internal(err)
	}

	if stored.UserID != actorID && !actorIsAdmin {
		return apperror.Authorization("you can only delete your own reviews")
	}

	if err := s.db.Delete(&stored).Error; err != nil {
		return apperror.Internal(fmt.Errorf("failed to delete review: %w", err))
	}
	return s.refreshProductRating(stored.ProductID)
}

// GetProductReviews lists a product's reviews newest first, with author
// display names resolved in one extra query.
func (s *Service) GetProductReviews(productID string) ([]ReviewResponse, error) {
	var reviews []Review
	if err := s.db.
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to retrieve reviews: %w", err))
	}

	userIDs := make([]string, 0, len(reviews))
	for _, r := range reviews {
		userIDs = append(userIDs, r.UserID)
	}

	names := make(map[string]string, len(userIDs))
	if len(userIDs) > 0 {
		var authors []user.User
		if err := s.db.Where("id IN ?", userIDs).Find(&authors).Error; err != nil {
			return nil, apperror.Internal(err)
		}
		for _, a := range authors {
			names[a.ID] = a.GetDisplayName()
		}
	}

	responses := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		responses = append(responses, ReviewResponse{
			Review:     r,
			AuthorName: names[r.UserID],
		})
	}
	return responses, nil
}

// GetRatingStats returns the average rating and review count for a product.
func (s *Service) GetRatingStats(productID string) (*RatingStats, error) {
	var stats RatingStats
	err := s.db.Model(&Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&stats).Error
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to compute rating stats: %w", err))
	}
	stats.Average = math.Round(stats.Average*10) / 10
	return &stats, nil
}

// refreshProductRating recomputes the denormalized rating column on the
// product. Products without reviews keep the default of 5.
func (s *Service) refreshProductRating(productID string) error {
	stats, err := s.GetRatingStats(productID)
	if err != nil {
		return err
	}

	rating := stats.Average
	if stats.Count == 0 {
		rating = 5
	}
	if err := s.db.Model(&catalog.Product{}).
		Where("id = ?", productID).
		Update("rating", rating).Error; err != nil {
		return apperror.Internal(fmt.Errorf("failed to refresh product rating: %w", err))
	}
	return nil
}
