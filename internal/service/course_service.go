package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"codecore/internal/domain"
	"codecore/internal/repository"
)

// CourseService coordina reglas de negocio del catálogo de cursos.
type CourseService struct {
	courses   repository.CourseRepository
	completed repository.CompletedCourseRepository
}

func NewCourseService(courses repository.CourseRepository, completed repository.CompletedCourseRepository) *CourseService {
	return &CourseService{
		courses:   courses,
		completed: completed,
	}
}

var (
	ErrCourseNotFound    = errors.New("course not found")
	ErrCompletedNotFound = errors.New("completed course not found")
)

// CourseInput usa punteros para distinguir campos presentes del JSON.
type CourseInput struct {
	Title    *string `json:"title"`
	Price    *string `json:"price"`
	Author   *string `json:"author"`
	ImageURL *string `json:"image_url"`
	Link     *string `json:"link"`
}

func applyCourseInput(course *domain.Course, input CourseInput, partial bool, errs FieldErrors) {
	if input.Title != nil {
		course.Title = strings.TrimSpace(*input.Title)
	}
	if input.Title != nil || !partial {
		if course.Title == "" {
			errs.add("title", msgFieldRequired)
		}
	}

	if input.Price != nil {
		course.Price = strings.TrimSpace(*input.Price)
	}
	if input.Price != nil || !partial {
		checkCoursePrice(errs, course.Price)
	}

	if input.Author != nil {
		course.Author = strings.TrimSpace(*input.Author)
	} else if !partial {
		course.Author = ""
	}
	if input.ImageURL != nil {
		course.ImageURL = strings.TrimSpace(*input.ImageURL)
	} else if !partial {
		course.ImageURL = ""
	}
	if input.Link != nil {
		course.Link = strings.TrimSpace(*input.Link)
	} else if !partial {
		course.Link = ""
	}
}

func (s *CourseService) CreateCourse(ctx context.Context, input CourseInput) (domain.Course, error) {
	course := domain.Course{ID: uuid.NewString()}
	errs := FieldErrors{}
	applyCourseInput(&course, input, false, errs)
	if len(errs) > 0 {
		return domain.Course{}, errs
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return domain.Course{}, err
	}
	return course, nil
}

func (s *CourseService) GetCourse(ctx context.Context, id string) (domain.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Course{}, ErrCourseNotFound
	}
	return course, err
}

func (s *CourseService) ListCourses(ctx context.Context) ([]domain.Course, error) {
	return s.courses.List(ctx)
}

func (s *CourseService) UpdateCourse(ctx context.Context, id string, input CourseInput, partial bool) (domain.Course, error) {
	course, err := s.GetCourse(ctx, id)
	if err != nil {
		return domain.Course{}, err
	}
	errs := FieldErrors{}
	applyCourseInput(&course, input, partial, errs)
	if len(errs) > 0 {
		return domain.Course{}, errs
	}
	if err := s.courses.Update(ctx, course); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Course{}, ErrCourseNotFound
		}
		return domain.Course{}, err
	}
	return course, nil
}

func (s *CourseService) DeleteCourse(ctx context.Context, id string) error {
	err := s.courses.Delete(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrCourseNotFound
	}
	return err
}

// CompletedCourseInput referencia un curso y una cuenta existentes.
type CompletedCourseInput struct {
	Course string `json:"course"`
	User   string `json:"user"`
}

func (s *CourseService) CreateCompleted(ctx context.Context, input CompletedCourseInput) (domain.CompletedCourse, error) {
	errs := FieldErrors{}
	course := strings.TrimSpace(input.Course)
	account := strings.TrimSpace(input.User)
	if course == "" {
		errs.add("course", msgFieldRequired)
	}
	if account == "" {
		errs.add("user", msgFieldRequired)
	}
	if len(errs) > 0 {
		return domain.CompletedCourse{}, errs
	}

	completed := domain.CompletedCourse{
		ID:        uuid.NewString(),
		CourseID:  course,
		AccountID: account,
	}
	if err := s.completed.Create(ctx, completed); err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			return domain.CompletedCourse{}, FieldErrors{nonFieldKey: {"course or user does not exist"}}
		}
		return domain.CompletedCourse{}, err
	}
	return completed, nil
}

func (s *CourseService) GetCompleted(ctx context.Context, id string) (domain.CompletedCourse, error) {
	completed, err := s.completed.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.CompletedCourse{}, ErrCompletedNotFound
	}
	return completed, err
}

func (s *CourseService) ListCompleted(ctx context.Context) ([]domain.CompletedCourse, error) {
	return s.completed.List(ctx)
}

func (s *CourseService) DeleteCompleted(ctx context.Context, id string) error {
	err := s.completed.Delete(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrCompletedNotFound
	}
	return err
}
