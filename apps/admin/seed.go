package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/gabriel-goncalves1122/SGPA/core"
	"github.com/gabriel-goncalves1122/SGPA/core/professor"
	"github.com/gabriel-goncalves1122/SGPA/core/project"
	"github.com/gabriel-goncalves1122/SGPA/core/student"
	"github.com/gabriel-goncalves1122/SGPA/core/task"
	"github.com/gabriel-goncalves1122/SGPA/core/team"
)

var (
	seedProfessors = []professor.NewProfessor{
		{Name: "Dr. Roberto Alves", Siape: "123456", Email: "roberto.alves@unifei.edu.br", Department: "Departamento de Computação"},
		{Name: "Dra. Maria Fernandes", Siape: "234567", Email: "maria.fernandes@unifei.edu.br", Department: "Departamento de Elétrica"},
		{Name: "Dr. Paulo Mendes", Siape: "345678", Email: "paulo.mendes@unifei.edu.br", Department: "Departamento de Mecânica"},
	}

	seedStudents = []student.NewStudent{
		{Name: "Ana Silva", Registration: "20240001", Email: "ana.silva@unifei.edu.br", Course: "Engenharia de Computação", Phone: "(35) 99911-2233"},
		{Name: "Carlos Oliveira", Registration: "20240002", Email: "carlos.oliveira@unifei.edu.br", Course: "Engenharia Elétrica", Phone: "(35) 98822-3344"},
		{Name: "Mariana Costa", Registration: "20240003", Email: "mariana.costa@unifei.edu.br", Course: "Engenharia Mecânica", Phone: "(35) 97733-4455"},
		{Name: "Juliana Pereira", Registration: "20240005", Email: "juliana.pereira@unifei.edu.br", Course: "Ciência da Computação", Phone: "(35) 95555-6677"},
		{Name: "Fernanda Lima", Registration: "20240007", Email: "fernanda.lima@unifei.edu.br", Course: "Engenharia de Software", Phone: "(35) 93377-8899"},
	}

	// seedProjects reference professors and students by their index in the lists above.
	seedProjects = []struct {
		title, description, start string
		advisor                   int
		leader                    int
		participants              []int
		tasks                     []string
	}{
		{
			title: "Monitoramento de Energia", description: "Sensores de consumo para os laboratórios.", start: "2024-03-01",
			advisor: 1, leader: 1, participants: []int{2},
			tasks: []string{"Levantamento de requisitos", "Protótipo do sensor"},
		},
		{
			title: "Plataforma de Projetos", description: "Gestão de projetos acadêmicos.", start: "2024-02-15",
			advisor: 0, leader: 0, participants: []int{3, 4},
			tasks: []string{"Modelagem do banco de dados", "API REST", "Interface web"},
		},
	}
)

// seed adds the sample data missing from the store. Professors are matched by siape,
// students by matricula and projects by title, so running it twice adds nothing.
func (cli *commandLine) seed() error {
	ctx := context.Background()

	profIDs := make([]string, len(seedProfessors))
	for i, np := range seedProfessors {
		prof, err := cli.professors.GetProfessorBySiape(ctx, np.Siape)
		if errors.Cause(err) == professor.ErrNotFound {
			prof, err = cli.professorSvc.Create(ctx, np)
			if err == nil {
				fmt.Fprintf(cli.out, "professor %s added\n", prof.Name)
			}
		}
		if err != nil {
			return errors.Wrapf(err, "seeding professor %s", np.Siape)
		}
		profIDs[i] = prof.ID
	}

	studIDs := make([]string, len(seedStudents))
	for i, ns := range seedStudents {
		stud, err := cli.students.GetStudentByRegistration(ctx, ns.Registration)
		if errors.Cause(err) == student.ErrNotFound {
			stud, err = cli.studentSvc.Create(ctx, ns)
			if err == nil {
				fmt.Fprintf(cli.out, "student %s added\n", stud.Name)
			}
		}
		if err != nil {
			return errors.Wrapf(err, "seeding student %s", ns.Registration)
		}
		studIDs[i] = stud.ID
	}

	for _, sp := range seedProjects {
		existing, err := cli.projectSvc.Query(ctx, project.QueryFilter{Title: sp.title})
		if err != nil {
			return errors.Wrap(err, "querying projects")
		}
		if containsTitle(existing, sp.title) {
			continue
		}

		start, _ := core.ParseDate(sp.start)
		proj, err := cli.projectSvc.Create(ctx, project.NewProject{
			Title:       sp.title,
			Description: sp.description,
			AdvisorID:   profIDs[sp.advisor],
			StartDate:   core.NewDate(start),
		})
		if err != nil {
			return errors.Wrapf(err, "seeding project %q", sp.title)
		}
		fmt.Fprintf(cli.out, "project %s added\n", proj.Title)

		links := []team.NewLink{{StudentID: studIDs[sp.leader], ProjectID: proj.ID, Role: team.RoleLeader}}
		for _, p := range sp.participants {
			links = append(links, team.NewLink{StudentID: studIDs[p], ProjectID: proj.ID, Role: team.RoleMember})
		}
		for _, nl := range links {
			if _, err = cli.teamSvc.Create(ctx, nl); err != nil && !core.IsConflict(err) {
				return errors.Wrapf(err, "seeding team-link of project %q", sp.title)
			}
		}

		for _, desc := range sp.tasks {
			_, err = cli.taskSvc.Create(ctx, task.NewTask{
				Description:    desc,
				ResponsibleIDs: []string{studIDs[sp.leader]},
				AdvisorID:      profIDs[sp.advisor],
				ProjectID:      proj.ID,
			})
			if err != nil {
				return errors.Wrapf(err, "seeding task %q", desc)
			}
		}
	}
	return nil
}

func containsTitle(projs []project.Project, title string) bool {
	for _, p := range projs {
		if p.Title == title {
			return true
		}
	}
	return false
}
