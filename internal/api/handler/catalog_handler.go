package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/yamdb/review-api/internal/core/domain"
	"github.com/yamdb/review-api/internal/core/ports"
)

// termFilter reads the search and paging parameters shared by category and
// genre listings.
func termFilter(c echo.Context) (ports.TermFilter, error) {
	page, err := pageRequest(c)
	if err != nil {
		return ports.TermFilter{}, err
	}
	return ports.TermFilter{Search: c.QueryParam("search"), PageRequest: page}, nil
}

type CategoryHandler struct {
	categoryService ports.CategoryService
}

func NewCategoryHandler(categoryService ports.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// List returns categories.
//
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Param        search  query     string  false  "Name substring"
// @Param        page    query     int     false  "Page number"  default(1)
// @Param        limit   query     int     false  "Page size"    default(10)
// @Success      200     {object}  listResponse[termResponse]
// @Router       /categories [get]
func (h *CategoryHandler) List(c echo.Context) error {
	filter, err := termFilter(c)
	if err != nil {
		return err
	}
	result, err := h.categoryService.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(result, toCategoryResponse))
}

// Create adds a category. The slug is derived from the name when omitted.
//
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      termRequest  true  "Category"
// @Success      201   {object}  termResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Router       /categories [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	var req termRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	cat, err := h.categoryService.Create(c.Request().Context(), actor(c), ports.TermInput{Name: req.Name, Slug: req.Slug})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCategoryResponse(cat))
}

// Delete removes a category and unsets it on its titles.
//
// @Summary      Delete a category
// @Tags         categories
// @Security     BearerAuth
// @Param        slug  path  string  true  "Category slug"
// @Success      204
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /categories/{slug} [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	if err := h.categoryService.Delete(c.Request().Context(), actor(c), c.Param("slug")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

type GenreHandler struct {
	genreService ports.GenreService
}

func NewGenreHandler(genreService ports.GenreService) *GenreHandler {
	return &GenreHandler{genreService: genreService}
}

// List returns genres.
//
// @Summary      List genres
// @Tags         genres
// @Produce      json
// @Param        search  query     string  false  "Name substring"
// @Param        page    query     int     false  "Page number"  default(1)
// @Param        limit   query     int     false  "Page size"    default(10)
// @Success      200     {object}  listResponse[termResponse]
// @Router       /genres [get]
func (h *GenreHandler) List(c echo.Context) error {
	filter, err := termFilter(c)
	if err != nil {
		return err
	}
	result, err := h.genreService.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(result, toGenreResponse))
}

// Create adds a genre.
//
// @Summary      Create a genre
// @Tags         genres
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      termRequest  true  "Genre"
// @Success      201   {object}  termResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Router       /genres [post]
func (h *GenreHandler) Create(c echo.Context) error {
	var req termRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	genre, err := h.genreService.Create(c.Request().Context(), actor(c), ports.TermInput{Name: req.Name, Slug: req.Slug})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toGenreResponse(genre))
}

// Delete removes a genre and detaches it from its titles.
//
// @Summary      Delete a genre
// @Tags         genres
// @Security     BearerAuth
// @Param        slug  path  string  true  "Genre slug"
// @Success      204
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /genres/{slug} [delete]
func (h *GenreHandler) Delete(c echo.Context) error {
	if err := h.genreService.Delete(c.Request().Context(), actor(c), c.Param("slug")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

type TitleHandler struct {
	titleService ports.TitleService
}

func NewTitleHandler(titleService ports.TitleService) *TitleHandler {
	return &TitleHandler{titleService: titleService}
}

// List returns titles ordered by name.
//
// @Summary      List titles
// @Tags         titles
// @Produce      json
// @Param        category  query     string  false  "Category slug"
// @Param        genre     query     string  false  "Genre slug"
// @Param        year      query     int     false  "Release year"
// @Param        name      query     string  false  "Name substring"
// @Param        page      query     int     false  "Page number"  default(1)
// @Param        limit     query     int     false  "Page size"    default(10)
// @Success      200       {object}  listResponse[titleResponse]
// @Failure      400       {object}  ErrorResponse
// @Router       /titles [get]
func (h *TitleHandler) List(c echo.Context) error {
	page, err := pageRequest(c)
	if err != nil {
		return err
	}
	q := ports.TitleQuery{
		Category:    c.QueryParam("category"),
		Genre:       c.QueryParam("genre"),
		Name:        c.QueryParam("name"),
		PageRequest: page,
	}
	if raw := c.QueryParam("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return domain.NewValidationError("year", "year must be an integer")
		}
		q.Year = &year
	}

	result, err := h.titleService.List(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(result, toTitleResponse))
}

// Get returns a title with its rating.
//
// @Summary      Get a title
// @Tags         titles
// @Produce      json
// @Param        id   path      int  true  "Title ID"
// @Success      200  {object}  titleResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /titles/{id} [get]
func (h *TitleHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	title, err := h.titleService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTitleResponse(title))
}

// Create adds a title. Category and genres are referenced by slug.
//
// @Summary      Create a title
// @Tags         titles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTitleRequest  true  "Title"
// @Success      201   {object}  titleWriteResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Router       /titles [post]
func (h *TitleHandler) Create(c echo.Context) error {
	var req createTitleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	title, err := h.titleService.Create(c.Request().Context(), actor(c), toTitleInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTitleWriteResponse(title))
}

// Update partially updates a title.
//
// @Summary      Update a title
// @Tags         titles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                 true  "Title ID"
// @Param        body  body      updateTitleRequest  true  "Fields to change"
// @Success      200   {object}  titleWriteResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /titles/{id} [patch]
func (h *TitleHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateTitleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	title, err := h.titleService.Update(c.Request().Context(), actor(c), id, toTitlePatch(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTitleWriteResponse(title))
}

// Delete removes a title with its reviews and comments.
//
// @Summary      Delete a title
// @Tags         titles
// @Security     BearerAuth
// @Param        id  path  int  true  "Title ID"
// @Success      204
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /titles/{id} [delete]
func (h *TitleHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.titleService.Delete(c.Request().Context(), actor(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
