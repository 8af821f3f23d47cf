package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/yamdb/review-api/internal/core/ports"
)

type ReviewHandler struct {
	reviewService ports.ReviewService
}

func NewReviewHandler(reviewService ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// List returns a title's reviews, newest first.
//
// @Summary      List reviews
// @Tags         reviews
// @Produce      json
// @Param        title_id  path      int  true   "Title ID"
// @Param        page      query     int  false  "Page number"  default(1)
// @Param        limit     query     int  false  "Page size"    default(10)
// @Success      200       {object}  listResponse[reviewResponse]
// @Failure      404       {object}  ErrorResponse
// @Router       /titles/{title_id}/reviews [get]
func (h *ReviewHandler) List(c echo.Context) error {
	titleID, err := pathID(c, "title_id")
	if err != nil {
		return err
	}
	page, err := pageRequest(c)
	if err != nil {
		return err
	}
	result, err := h.reviewService.List(c.Request().Context(), titleID, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(result, toReviewResponse))
}

// Get returns one review of a title.
//
// @Summary      Get a review
// @Tags         reviews
// @Produce      json
// @Param        title_id  path      int  true  "Title ID"
// @Param        id        path      int  true  "Review ID"
// @Success      200       {object}  reviewResponse
// @Failure      404       {object}  ErrorResponse
// @Router       /titles/{title_id}/reviews/{id} [get]
func (h *ReviewHandler) Get(c echo.Context) error {
	titleID, id, err := reviewPath(c, "id")
	if err != nil {
		return err
	}
	review, err := h.reviewService.Get(c.Request().Context(), titleID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReviewResponse(review))
}

// Create posts the caller's review of a title. Each user reviews a title once.
//
// @Summary      Create a review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        title_id  path      int                  true  "Title ID"
// @Param        body      body      createReviewRequest  true  "Review"
// @Success      201       {object}  reviewResponse
// @Failure      400       {object}  ErrorResponse
// @Failure      401       {object}  ErrorResponse
// @Failure      404       {object}  ErrorResponse
// @Router       /titles/{title_id}/reviews [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	titleID, err := pathID(c, "title_id")
	if err != nil {
		return err
	}
	var req createReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	review, err := h.reviewService.Create(c.Request().Context(), actor(c), titleID, ports.ReviewInput{
		Text:  req.Text,
		Score: req.Score,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toReviewResponse(review))
}

// Update edits a review. Allowed for the author and for staff.
//
// @Summary      Update a review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        title_id  path      int                  true  "Title ID"
// @Param        id        path      int                  true  "Review ID"
// @Param        body      body      updateReviewRequest  true  "Fields to change"
// @Success      200       {object}  reviewResponse
// @Failure      400       {object}  ErrorResponse
// @Failure      403       {object}  ErrorResponse
// @Failure      404       {object}  ErrorResponse
// @Router       /titles/{title_id}/reviews/{id} [patch]
func (h *ReviewHandler) Update(c echo.Context) error {
	titleID, id, err := reviewPath(c, "id")
	if err != nil {
		return err
	}
	var req updateReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	review, err := h.reviewService.Update(c.Request().Context(), actor(c), titleID, id, ports.ReviewPatch{
		Text:  req.Text,
		Score: req.Score,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReviewResponse(review))
}

// Delete removes a review and its comments.
//
// @Summary      Delete a review
// @Tags         reviews
// @Security     BearerAuth
// @Param        title_id  path  int  true  "Title ID"
// @Param        id        path  int  true  "Review ID"
// @Success      204
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /titles/{title_id}/reviews/{id} [delete]
func (h *ReviewHandler) Delete(c echo.Context) error {
	titleID, id, err := reviewPath(c, "id")
	if err != nil {
		return err
	}
	if err := h.reviewService.Delete(c.Request().Context(), actor(c), titleID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// reviewPath parses title_id together with the review id parameter name.
func reviewPath(c echo.Context, name string) (titleID, id int64, err error) {
	if titleID, err = pathID(c, "title_id"); err != nil {
		return 0, 0, err
	}
	if id, err = pathID(c, name); err != nil {
		return 0, 0, err
	}
	return titleID, id, nil
}

type CommentHandler struct {
	commentService ports.CommentService
}

func NewCommentHandler(commentService ports.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func commentRef(c echo.Context) (ports.CommentRef, error) {
	titleID, reviewID, err := reviewPath(c, "review_id")
	if err != nil {
		return ports.CommentRef{}, err
	}
	return ports.CommentRef{TitleID: titleID, ReviewID: reviewID}, nil
}

// List returns a review's comments, newest first.
//
// @Summary      List comments
// @Tags         comments
// @Produce      json
// @Param        title_id   path      int  true   "Title ID"
// @Param        review_id  path      int  true   "Review ID"
// @Param        page       query     int  false  "Page number"  default(1)
// @Param        limit      query     int  false  "Page size"    default(10)
// @Success      200        {object}  listResponse[commentResponse]
// @Failure      404        {object}  ErrorResponse
// @Router       /titles/{title_id}/reviews/{review_id}/comments [get]
func (h *CommentHandler) List(c echo.Context) error {
	ref, err := commentRef(c)
	if err != nil {
		return err
	}
	page, err := pageRequest(c)
	if err != nil {
		return err
	}
	result, err := h.commentService.List(c.Request().Context(), ref, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(result, toCommentResponse))
}

// Get returns one comment.
//
// @Summary      Get a comment
// @Tags         comments
// @Produce      json
// @Param        title_id   path      int  true  "Title ID"
// @Param        review_id  path      int  true  "Review ID"
// @Param        id         path      int  true  "Comment ID"
// @Success      200        {object}  commentResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /titles/{title_id}/reviews/{review_id}/comments/{id} [get]
func (h *CommentHandler) Get(c echo.Context) error {
	ref, err := commentRef(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	comment, err := h.commentService.Get(c.Request().Context(), ref, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentResponse(comment))
}

// Create posts a comment on a review.
//
// @Summary      Create a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        title_id   path      int             true  "Title ID"
// @Param        review_id  path      int             true  "Review ID"
// @Param        body       body      commentRequest  true  "Comment"
// @Success      201        {object}  commentResponse
// @Failure      400        {object}  ErrorResponse
// @Failure      401        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /titles/{title_id}/reviews/{review_id}/comments [post]
func (h *CommentHandler) Create(c echo.Context) error {
	ref, err := commentRef(c)
	if err != nil {
		return err
	}
	var req commentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	comment, err := h.commentService.Create(c.Request().Context(), actor(c), ref, req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCommentResponse(comment))
}

// Update edits a comment.
//
// @Summary      Update a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        title_id   path      int                   true  "Title ID"
// @Param        review_id  path      int                   true  "Review ID"
// @Param        id         path      int                   true  "Comment ID"
// @Param        body       body      updateCommentRequest  true  "Fields to change"
// @Success      200        {object}  commentResponse
// @Failure      400        {object}  ErrorResponse
// @Failure      403        {object}  ErrorResponse
// @Failure      404        {object}  ErrorResponse
// @Router       /titles/{title_id}/reviews/{review_id}/comments/{id} [patch]
func (h *CommentHandler) Update(c echo.Context) error {
	ref, err := commentRef(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	comment, err := h.commentService.Update(c.Request().Context(), actor(c), ref, id, req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentResponse(comment))
}

// Delete removes a comment.
//
// @Summary      Delete a comment
// @Tags         comments
// @Security     BearerAuth
// @Param        title_id   path  int  true  "Title ID"
// @Param        review_id  path  int  true  "Review ID"
// @Param        id         path  int  true  "Comment ID"
// @Success      204
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /titles/{title_id}/reviews/{review_id}/comments/{id} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	ref, err := commentRef(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.commentService.Delete(c.Request().Context(), actor(c), ref, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
