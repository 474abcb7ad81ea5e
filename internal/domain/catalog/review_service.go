// internal/domain/catalog/review_service.go
package catalog

import (
	"fmt"

	"gorm.io/gorm"
)

// ReviewService handles product review business logic
type ReviewService struct {
	db *gorm.DB
}

// NewReviewService creates a new review service
func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{
		db: db,
	}
}

// SubmitReviewRequest represents review submission data
type SubmitReviewRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Title     string `json:"title" binding:"max=255"`
	Comment   string `json:"comment"`
	Images    string `json:"images"`
}

// ReviewListRequest represents review list query parameters
type ReviewListRequest struct {
	ProductID uint   `form:"product_id" binding:"required"`
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=20"`
	SortBy    string `form:"sort_by,default=created_at"`
	SortOrder string `form:"sort_order,default=desc"`
}

// ReviewListResponse represents reviews with pagination and summary
type ReviewListResponse struct {
	Reviews    []Review      `json:"reviews"`
	Pagination Pagination    `json:"pagination"`
	Summary    ReviewSummary `json:"summary"`
}

// ReviewSummary represents aggregated review data for a product
type ReviewSummary struct {
	Average       float64     `json:"average"`
	Count         int64       `json:"count"`
	Distribution  map[int]int `json:"distribution"`
	VerifiedCount int64       `json:"verified_count"`
}

// SubmitReview creates a review, or updates the existing one when the user
// has already reviewed the product.
func (s *ReviewService) SubmitReview(userID uint, req *SubmitReviewRequest) (*Review, error) {
	// Validate product exists and is active
	var product Product
	if err := s.db.Where("id = ? AND is_active = ?", req.ProductID, true).First(&product).Error; err != nil {
		return nil, fmt.Errorf("product not found or inactive")
	}

	verified, orderID := s.verifiedPurchase(userID, req.ProductID)

	var review Review
	err := s.db.Where("user_id = ? AND product_id = ?", userID, req.ProductID).First(&review).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		review = Review{
			ProductID:        req.ProductID,
			UserID:           userID,
			OrderID:          orderID,
			Rating:           req.Rating,
			Title:            req.Title,
			Comment:          req.Comment,
			Images:           req.Images,
			VerifiedPurchase: verified,
		}
		if err := s.db.Create(&review).Error; err != nil {
			return nil, fmt.Errorf("failed to create review: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to look up existing review: %w", err)
	default:
		// Resubmission updates the row in place rather than duplicating
		review.Rating = req.Rating
		review.Title = req.Title
		review.Comment = req.Comment
		review.Images = req.Images
		review.VerifiedPurchase = verified
		review.OrderID = orderID
		if err := s.db.Save(&review).Error; err != nil {
			return nil, fmt.Errorf("failed to update review: %w", err)
		}
	}

	if err := s.refreshProductRating(req.ProductID); err != nil {
		return nil, err
	}

	return &review, nil
}

// GetReviews retrieves reviews for a product with pagination
func (s *ReviewService) GetReviews(req *ReviewListRequest) (*ReviewListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	query := s.db.Model(&Review{}).Where("product_id = ?", req.ProductID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}

	var reviews []Review
	offset := (req.Page - 1) * req.Limit
	err := query.Order(s.buildOrderClause(req.SortBy, req.SortOrder)).
		Offset(offset).Limit(req.Limit).
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve reviews: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &ReviewListResponse{
		Reviews: reviews,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
		Summary: s.getReviewSummary(req.ProductID),
	}, nil
}

// GetUserReview retrieves the current user's review for a product, if any
func (s *ReviewService) GetUserReview(userID, productID uint) (*Review, error) {
	var review Review
	err := s.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&review).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("review not found")
		}
		return nil, fmt.Errorf("failed to retrieve review: %w", err)
	}
	return &review, nil
}

// DeleteReview removes the user's own review
func (s *ReviewService) DeleteReview(userID, reviewID uint) error {
	var review Review
	if err := s.db.Where("id = ? AND user_id = ?", reviewID, userID).First(&review).Error; err != nil {
		return fmt.Errorf("review not found")
	}

	if err := s.db.Delete(&review).Error; err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	return s.refreshProductRating(review.ProductID)
}

// Private helper methods

// verifiedPurchase checks whether the user has a delivered order containing
// the product, returning the order ID backing the flag.
func (s *ReviewService) verifiedPurchase(userID, productID uint) (bool, *uint) {
	var result struct {
		OrderID uint
	}
	err := s.db.Table("order_items").
		Select("order_items.order_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND order_items.product_id = ?", userID, productID).
		Where("order_items.status IN ?", []string{"delivered", "returned", "replaced"}).
		Order("order_items.order_id DESC").
		Limit(1).
		Scan(&result).Error
	if err != nil || result.OrderID == 0 {
		return false, nil
	}
	return true, &result.OrderID
}

func (s *ReviewService) refreshProductRating(productID uint) error {
	var agg struct {
		Average float64
		Count   int64
	}
	err := s.db.Model(&Review{}).
		Select("COALESCE(AVG(rating), 0) as average, COUNT(*) as count").
		Where("product_id = ?", productID).
		Scan(&agg).Error
	if err != nil {
		return fmt.Errorf("failed to aggregate ratings: %w", err)
	}

	return s.db.Model(&Product{}).Where("id = ?", productID).
		Updates(map[string]interface{}{
			"rating_average": agg.Average,
			"rating_count":   agg.Count,
		}).Error
}

func (s *ReviewService) getReviewSummary(productID uint) ReviewSummary {
	summary := ReviewSummary{
		Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}

	var rows []struct {
		Rating int
		Count  int
	}
	if err := s.db.Model(&Review{}).
		Select("rating, COUNT(*) as count").
		Where("product_id = ?", productID).
		Group("rating").
		Scan(&rows).Error; err != nil {
		return summary
	}

	var total int64
	var weighted int64
	for _, row := range rows {
		summary.Distribution[row.Rating] = row.Count
		total += int64(row.Count)
		weighted += int64(row.Rating) * int64(row.Count)
	}

	summary.Count = total
	if total > 0 {
		summary.Average = float64(weighted) / float64(total)
	}

	s.db.Model(&Review{}).
		Where("product_id = ? AND verified_purchase = ?", productID, true).
		Count(&summary.VerifiedCount)

	return summary
}

func (s *ReviewService) buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]bool{
		"created_at": true,
		"rating":     true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}
