package report

import (
	"context"
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/gabriel-goncalves1122/SGPA/core"
	"github.com/gabriel-goncalves1122/SGPA/core/professor"
	"github.com/gabriel-goncalves1122/SGPA/core/project"
	"github.com/gabriel-goncalves1122/SGPA/core/student"
	"github.com/gabriel-goncalves1122/SGPA/core/task"
)

type (
	ProjectLister interface {
		QueryAllProjects(ctx context.Context) ([]project.Project, error)
	}

	TaskLister interface {
		QueryTasksByProject(ctx context.Context, projectID string) ([]task.Task, error)
	}

	ProfessorGetter interface {
		GetProfessorByID(ctx context.Context, id string) (professor.Professor, error)
	}

	StudentGetter interface {
		GetStudentByID(ctx context.Context, id string) (student.Student, error)
	}

	Service struct {
		projects   ProjectLister
		tasks      TaskLister
		professors ProfessorGetter
		students   StudentGetter
	}
)

func NewService(projects ProjectLister, tasks TaskLister, professors ProfessorGetter, students StudentGetter) *Service {
	return &Service{
		projects:   projects,
		tasks:      tasks,
		professors: professors,
		students:   students,
	}
}

// Projects summarises the progress of every project matching filter, ordered by title.
// With a course filter, only members of that course are counted, and projects without any
// such member are left out.
func (svc *Service) Projects(ctx context.Context, filter QueryFilter) ([]ProjectRow, error) {
	filter.Clean()
	projs, err := svc.projects.QueryAllProjects(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying projects")
	}

	rows := make([]ProjectRow, 0, len(projs))
	for _, p := range projs {
		if filter.AdvisorID != "" && p.AdvisorID != filter.AdvisorID {
			continue
		}
		if filter.Status != "" && !core.EqualFold(p.Status, filter.Status) {
			continue
		}

		numStudents := len(p.MemberIDs)
		if filter.Course != "" {
			if numStudents, err = svc.countCourseMembers(ctx, p.MemberIDs, filter.Course); err != nil {
				return nil, err
			}
			if numStudents == 0 {
				continue
			}
		}

		tasks, err := svc.tasks.QueryTasksByProject(ctx, p.ID)
		if err != nil {
			return nil, errors.Wrap(err, "querying project tasks")
		}
		var done int
		for _, t := range tasks {
			if t.IsDone() {
				done++
			}
		}

		advisor, err := svc.advisor(ctx, p.AdvisorID)
		if err != nil {
			return nil, err
		}

		rows = append(rows, ProjectRow{
			ID:               p.ID,
			Title:            p.Title,
			Advisor:          advisor,
			NumStudents:      numStudents,
			TotalTasks:       len(tasks),
			PercentCompleted: percent(done, len(tasks)),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Title < rows[j].Title })
	return rows, nil
}

func (svc *Service) countCourseMembers(ctx context.Context, memberIDs []string, course string) (int, error) {
	var n int
	for _, id := range memberIDs {
		stud, err := svc.students.GetStudentByID(ctx, id)
		if err != nil {
			if errors.Cause(err) == student.ErrNotFound {
				continue
			}
			return 0, errors.Wrap(err, "getting project member")
		}
		if core.EqualFold(stud.Course, course) {
			n++
		}
	}
	return n, nil
}

func (svc *Service) advisor(ctx context.Context, id string) (Advisor, error) {
	adv := Advisor{ID: id, Name: id}
	prof, err := svc.professors.GetProfessorByID(ctx, id)
	if err != nil {
		if errors.Cause(err) == professor.ErrNotFound {
			return adv, nil
		}
		return Advisor{}, errors.Wrap(err, "getting advisor")
	}
	if prof.Name != "" {
		adv.Name = prof.Name
	}
	return adv, nil
}

// percent returns the rounded share of done over total, 0 when total is 0.
func percent(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Floor(100*float64(done)/float64(total) + .5))
}
