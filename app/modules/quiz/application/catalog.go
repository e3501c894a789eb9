package quizservice

import (
	"context"
	"sort"
	"strings"

	quizdb "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/quiz/infrastructure/repositories"
	rankingdomain "github.com/vidhyasarthi/vidhyasarthi-api/app/modules/ranking/domain"
)

// CatalogPage is a paginated slice of the quiz catalog.
type CatalogPage struct {
	Quizzes      []quizdb.Quiz `json:"quizzes"`
	TotalPages   int           `json:"totalPages"`
	CurrentPage  int           `json:"currentPage"`
	TotalQuizzes int           `json:"totalQuizzes"`
	HasNextPage  bool          `json:"hasNextPage"`
}

// ListRecent pages the catalog newest first.
func (s *Service) ListRecent(ctx context.Context, page, limit int) (*CatalogPage, error) {
	return s.pageCatalog(ctx, quizdb.Filter{}, page, limit)
}

// Search pages quizzes whose title, subject, tags or description match
// the query, optionally restricted to one stream.
func (s *Service) Search(ctx context.Context, query, stream string, page, limit int) (*CatalogPage, error) {
	return s.pageCatalog(ctx, quizdb.Filter{Query: query, Stream: stream}, page, limit)
}

// FilterByStream pages quizzes targeting the given stream. "All" is a
// no-op filter.
func (s *Service) FilterByStream(ctx context.Context, stream string, page, limit int) (*CatalogPage, error) {
	return s.pageCatalog(ctx, quizdb.Filter{Stream: stream}, page, limit)
}

func (s *Service) pageCatalog(ctx context.Context, filter quizdb.Filter, page, limit int) (*CatalogPage, error) {
	total, err := s.quizzes.Count(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}
	quizzes, err := s.quizzes.Page(ctx, s.db, filter, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	if quizzes == nil {
		quizzes = []quizdb.Quiz{}
	}
	totalPages := rankingdomain.TotalPages(total, limit)
	return &CatalogPage{
		Quizzes:      quizzes,
		TotalPages:   totalPages,
		CurrentPage:  page,
		TotalQuizzes: total,
		HasNextPage:  page < totalPages,
	}, nil
}

// GetQuiz fetches a single quiz by its public identifier.
func (s *Service) GetQuiz(ctx context.Context, quizID string) (*quizdb.Quiz, error) {
	return s.quizzes.GetByID(ctx, s.db, quizID)
}

// examSubjectMap defines the subjects shown per entrance exam on the
// browse page. Order here controls display order.
var examSubjectMap = []struct {
	Exam     string
	Subjects []string
}{
	{"JEE", []string{"Mathematics", "Physics", "Chemistry"}},
	{"NEET", []string{"Physics", "Chemistry", "Biology"}},
	{"CAT", []string{"Management", "Financial Management", "Marketing Management", "Business Economics"}},
	{"UPSC", []string{"Management", "Business Economics", "Accounting"}},
	{"GATE", []string{"Mathematics", "Physics", "Chemistry"}},
	{"GRE", []string{"Mathematics", "Management", "Business Economics"}},
	{"MHTCET(PCM)", []string{"Mathematics", "Physics", "Chemistry"}},
	{"MHTCET(PCB)", []string{"Physics", "Chemistry", "Biology"}},
	{"MAH-B-BCA-BBA-BMS-BBM-CET", []string{"Reasoning (Verbal and Arithmetic)", "English language", "Computer basics", "General Knowledge and awareness"}},
}

// SubjectGroup is the quizzes for one subject within an exam.
type SubjectGroup struct {
	Subject string        `json:"subject"`
	Quizzes []quizdb.Quiz `json:"quizzes"`
}

// ExamGroup is the browse-page grouping for one entrance exam.
type ExamGroup struct {
	Exam     string         `json:"exam"`
	Subjects []SubjectGroup `json:"subjects"`
}

// OrganizedByExam buckets every quiz under each exam/subject pair it
// belongs to. A quiz matches a subject when its subject field equals it
// or its title mentions it. Empty buckets are omitted.
func (s *Service) OrganizedByExam(ctx context.Context) ([]ExamGroup, error) {
	quizzes, err := s.quizzes.ListAll(ctx, s.db)
	if err != nil {
		return nil, err
	}

	groups := make([]ExamGroup, 0, len(examSubjectMap))
	for _, entry := range examSubjectMap {
		group := ExamGroup{Exam: entry.Exam}
		for _, subject := range entry.Subjects {
			var matched []quizdb.Quiz
			for _, quiz := range quizzes {
				if !targetsStream(quiz, entry.Exam) {
					continue
				}
				if quiz.Subject == subject || containsFold(quiz.QuizTitle, subject) {
					matched = append(matched, quiz)
				}
			}
			if len(matched) > 0 {
				sort.SliceStable(matched, func(i, j int) bool {
					return matched[i].CreatedAt.After(matched[j].CreatedAt)
				})
				group.Subjects = append(group.Subjects, SubjectGroup{Subject: subject, Quizzes: matched})
			}
		}
		if len(group.Subjects) > 0 {
			groups = append(groups, group)
		}
	}
	return groups, nil
}

func targetsStream(quiz quizdb.Quiz, stream string) bool {
	for _, s := range quiz.ForStreams {
		if s == stream {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
