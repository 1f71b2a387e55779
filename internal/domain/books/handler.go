package books

import (
	"net/http"
	"strings"
	"time"

	"pet-care-hub/internal/platform/apperr"
	"pet-care-hub/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/books", func(br chi.Router) {
		br.Post("/", createBookHandler(svc))
		br.Get("/", listBooksHandler(svc))

		br.Route("/{bookID}", func(one chi.Router) {
			one.Get("/", getBookHandler(svc))
			one.Patch("/", updateBookHandler(svc))
			one.Delete("/", deleteBookHandler(svc))
			one.Post("/readings", startReadingHandler(svc))
		})
	})

	r.Route("/readings", func(rr chi.Router) {
		rr.Get("/", listReadingsHandler(svc))
		rr.Post("/{readingID}/progress", addProgressHandler(svc))
		rr.Put("/{readingID}/review", setReviewHandler(svc))
	})
}

type createBookRequest struct {
	ClubID      string `json:"clubId"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Pages       int    `json:"pages"`
	Cover       string `json:"cover"`
	PreviewLink string `json:"previewLink"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

type updateBookRequest struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	Description *string `json:"description"`
	Pages       *int    `json:"pages"`
	Cover       *string `json:"cover"`
	PreviewLink *string `json:"previewLink"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
}

type startReadingRequest struct {
	StartDate *string `json:"startDate"`
}

type progressRequest struct {
	Percentage *int   `json:"percentage"`
	Comment    string `json:"comment"`
}

type reviewRequest struct {
	Rating      int    `json:"rating"`
	Description string `json:"description"`
}

type BookResponse struct {
	ID          string    `json:"id"`
	ClubID      string    `json:"clubId"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	Pages       int       `json:"pages"`
	Cover       string    `json:"cover"`
	PreviewLink string    `json:"previewLink"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type readingResponse struct {
	ID         string     `json:"id"`
	BookID     string     `json:"bookId"`
	UserID     string     `json:"userId"`
	StartDate  time.Time  `json:"startDate"`
	EndDate    *time.Time `json:"endDate,omitempty"`
	Percentage int        `json:"percentage"`
	Progress   []Progress `json:"progress"`
	Review     *Review    `json:"review,omitempty"`
}

// createBookHandler godoc
// @Summary      Agregar libro a un club
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        body  body      createBookRequest  true  "libro"
// @Success      201   {object}  BookResponse
// @Failure      400   {string}  string  "title is required"
// @Failure      404   {string}  string  "club not found"
// @Router       /api/books [post]
func createBookHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createBookRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		start, err := httpx.ParseDate("startDate", req.StartDate)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		end, err := httpx.ParseDate("endDate", req.EndDate)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		b, err := svc.Create(r.Context(), CreateInput{
			ClubID:      req.ClubID,
			Title:       req.Title,
			Author:      req.Author,
			Description: req.Description,
			Pages:       req.Pages,
			Cover:       req.Cover,
			PreviewLink: req.PreviewLink,
			StartDate:   start,
			EndDate:     end,
		})
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toBookResponse(b))
	}
}

// listBooksHandler: ?clubId= filtra por club.
func listBooksHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			items []Book
			err   error
		)
		if clubID := strings.TrimSpace(r.URL.Query().Get("clubId")); clubID != "" {
			items, err = svc.ListByClub(r.Context(), clubID)
		} else {
			items, err = svc.List(r.Context())
		}
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToBookResponses(items))
	}
}

func getBookHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := svc.GetByID(r.Context(), chi.URLParam(r, "bookID"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toBookResponse(b))
	}
}

func updateBookHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateBookRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		start, err := httpx.ParseOptionalDate("startDate", req.StartDate)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		end, err := httpx.ParseOptionalDate("endDate", req.EndDate)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		b, err := svc.Update(r.Context(), chi.URLParam(r, "bookID"), UpdateInput{
			Title:       req.Title,
			Author:      req.Author,
			Description: req.Description,
			Pages:       req.Pages,
			Cover:       req.Cover,
			PreviewLink: req.PreviewLink,
			StartDate:   start,
			EndDate:     end,
		})
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toBookResponse(b))
	}
}

func deleteBookHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "bookID")); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func startReadingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := httpx.ActorID(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req startReadingRequest
		// body opcional
		if r.ContentLength != 0 {
			if err := httpx.DecodeJSON(r, &req); err != nil {
				httpx.WriteError(w, r, err)
				return
			}
		}
		start, err := httpx.ParseOptionalDate("startDate", req.StartDate)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		rd, err := svc.StartReading(r.Context(), actor, chi.URLParam(r, "bookID"), StartReadingInput{StartDate: start})
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toReadingResponse(rd))
	}
}

func listReadingsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := httpx.ActorID(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		items, err := svc.ListReadings(r.Context(), actor)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		out := make([]readingResponse, 0, len(items))
		for _, rd := range items {
			out = append(out, toReadingResponse(rd))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// addProgressHandler godoc
// @Summary      Registrar avance de lectura
// @Description  Solo el dueño del registro. 100% cierra la lectura.
// @Tags         readings
// @Accept       json
// @Produce      json
// @Param        readingID  path      string           true  "reading id"
// @Param        body       body      progressRequest  true  "percentage 0..100, comment"
// @Success      200        {object}  readingResponse
// @Failure      403        {string}  string  "forbidden"
// @Router       /api/readings/{readingID}/progress [post]
func addProgressHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := httpx.ActorID(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req progressRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if req.Percentage == nil {
			httpx.WriteError(w, r, apperr.Invalid("percentage is required"))
			return
		}

		rd, err := svc.AddProgress(r.Context(), actor, chi.URLParam(r, "readingID"), *req.Percentage, req.Comment)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toReadingResponse(rd))
	}
}

func setReviewHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := httpx.ActorID(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req reviewRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		rd, err := svc.SetReview(r.Context(), actor, chi.URLParam(r, "readingID"), req.Rating, req.Description)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toReadingResponse(rd))
	}
}

// ToBookResponses lo reutiliza clubs para la vista populada.
func ToBookResponses(items []Book) []BookResponse {
	out := make([]BookResponse, 0, len(items))
	for _, b := range items {
		out = append(out, toBookResponse(b))
	}
	return out
}

func toBookResponse(b Book) BookResponse {
	return BookResponse{
		ID:          b.ID,
		ClubID:      b.ClubID,
		Title:       b.Title,
		Author:      b.Author,
		Description: b.Description,
		Pages:       b.Pages,
		Cover:       b.Cover,
		PreviewLink: b.PreviewLink,
		StartDate:   b.StartDate,
		EndDate:     b.EndDate,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func toReadingResponse(r Reading) readingResponse {
	progress := r.Progress
	if progress == nil {
		progress = []Progress{}
	}
	return readingResponse{
		ID:         r.ID,
		BookID:     r.BookID,
		UserID:     r.UserID,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
		Percentage: r.Percentage(),
		Progress:   progress,
		Review:     r.Review,
	}
}
