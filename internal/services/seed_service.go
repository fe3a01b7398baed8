package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/campus-portal/portal-service/internal/auth"
	"github.com/campus-portal/portal-service/internal/cache"
	"github.com/campus-portal/portal-service/internal/models"
	"github.com/campus-portal/portal-service/internal/repositories"
)

const (
	seedStudentPassword = "student123"
	seedFacultyPassword = "faculty123"
	seedAdminPassword   = "admin123"
)

type seedUser struct {
	name, email, department, code string
	role                          models.UserRole
}

type seedCourse struct {
	code, name, degree, duration, description string
	faculty                                   string
	students                                  []string
}

type seedAssignment struct {
	course, title, due, description string
}

var seedUsers = []seedUser{
	{"Arjun Sharma", "arjun@campus.edu", "Computer Science", "STU001", models.RoleStudent},
	{"Priya Patel", "priya@campus.edu", "Computer Science", "STU002", models.RoleStudent},
	{"Rahul Verma", "rahul@campus.edu", "Computer Science", "STU003", models.RoleStudent},
	{"Sneha Gupta", "sneha@campus.edu", "Computer Science", "STU004", models.RoleStudent},
	{"Vikram Singh", "vikram@campus.edu", "Electronics", "STU005", models.RoleStudent},
	{"Ananya Reddy", "ananya@campus.edu", "Computer Science", "STU006", models.RoleStudent},
	{"Karthik Nair", "karthik@campus.edu", "Computer Science", "STU007", models.RoleStudent},
	{"Meera Joshi", "meera@campus.edu", "Computer Science", "STU008", models.RoleStudent},
	{"Dr. Ramesh Kumar", "ramesh@campus.edu", "Computer Science", "", models.RoleFaculty},
	{"Dr. Lakshmi Iyer", "lakshmi@campus.edu", "Computer Science", "", models.RoleFaculty},
	{"Portal Admin", "admin@campus.edu", "Administration", "", models.RoleAdmin},
}

var seedCourses = []seedCourse{
	{"CS201", "Data Structures", "B.Tech", "4 Years",
		"Study of fundamental data structures including arrays, linked lists, trees, and graphs.",
		"ramesh@campus.edu", []string{"STU001", "STU002", "STU003", "STU004", "STU005", "STU006", "STU007", "STU008"}},
	{"CS202", "Database Management", "B.Tech", "4 Years",
		"Relational databases, SQL, normalization, and transaction management.",
		"ramesh@campus.edu", []string{"STU001", "STU004", "STU005", "STU006"}},
	{"CS301", "Machine Learning", "M.Tech", "2 Years",
		"Introduction to ML algorithms, neural networks, and deep learning fundamentals.",
		"lakshmi@campus.edu", []string{"STU002", "STU003", "STU005", "STU007"}},
	{"CS305", "Web Development", "B.Tech", "4 Years",
		"Full-stack web development with React, Node.js, and modern web technologies.",
		"lakshmi@campus.edu", []string{"STU001", "STU002", "STU003", "STU004", "STU008"}},
	{"CS204", "Computer Networks", "B.Tech", "4 Years",
		"Network protocols, TCP/IP, routing, switching, and network security.",
		"ramesh@campus.edu", []string{"STU006", "STU007", "STU008"}},
}

var seedAssignments = []seedAssignment{
	{"CS201", "Lab 1 - Linked Lists", "2026-02-28", "Implement singly and doubly linked lists with insert, delete, and search operations."},
	{"CS201", "Lab 2 - Binary Trees", "2026-03-10", "Implement a binary search tree with traversal algorithms."},
	{"CS201", "Lab 3 - Graph Algorithms", "2026-03-20", "Implement BFS and DFS graph traversal algorithms."},
	{"CS202", "ER Diagram Design", "2026-02-25", "Design an ER diagram for a university management system."},
	{"CS202", "SQL Queries Assignment", "2026-03-05", "Write SQL queries for CRUD operations and joins."},
	{"CS202", "Normalization Exercise", "2026-03-15", "Normalize a given schema to 3NF."},
	{"CS301", "Project Proposal", "2026-03-01", "Submit a proposal for your ML research project."},
	{"CS301", "Literature Review", "2026-03-12", "Review 5 research papers and summarize findings."},
	{"CS301", "Model Implementation", "2026-03-25", "Implement and train a classification model."},
	{"CS305", "React App Development", "2026-02-28", "Build a task management app using React."},
	{"CS305", "REST API Design", "2026-03-08", "Design and document RESTful APIs for your project."},
	{"CS305", "Full Stack Project", "2026-03-22", "Complete full-stack project with frontend and backend."},
	{"CS204", "TCP/IP Analysis", "2026-03-03", "Capture and analyze TCP/IP packets using Wireshark."},
	{"CS204", "Network Simulation", "2026-03-13", "Simulate a network topology using Cisco Packet Tracer."},
	{"CS204", "Protocol Design", "2026-03-23", "Design a custom application-layer protocol."},
}

type seedService struct {
	repo   repositories.Repository
	logger *slog.Logger
	cache  *cache.CacheManager
}

func NewSeedService(repo repositories.Repository, logger *slog.Logger, cm *cache.CacheManager) SeedService {
	return &seedService{repo: repo, logger: logger, cache: cm}
}

// Seed inserts the demo dataset. Rows are matched by natural key (email,
// course code, course and title), so running it again changes nothing.
func (s *seedService) Seed(ctx context.Context) (*SeedReport, error) {
	report := &SeedReport{}

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		users := make(map[string]*models.User, len(seedUsers))
		for _, su := range seedUsers {
			u, created, err := s.ensureUser(ctx, tx, su)
			if err != nil {
				return err
			}
			users[su.email] = u
			if u.StudentCode != nil {
				users[*u.StudentCode] = u
			}
			if created {
				report.Users++
			}
		}

		courses := make(map[string]*models.Course, len(seedCourses))
		for _, sc := range seedCourses {
			c, created, err := s.ensureCourse(ctx, tx, sc, users[sc.faculty])
			if err != nil {
				return err
			}
			courses[sc.code] = c
			if created {
				report.Courses++
			}

			added, err := s.ensureEnrollment(ctx, tx, c, sc.students, users)
			if err != nil {
				return err
			}
			report.Enrollments += added
		}

		for _, sa := range seedAssignments {
			created, err := s.ensureAssignment(ctx, tx, courses[sa.course], sa)
			if err != nil {
				return err
			}
			if created {
				report.Assignments++
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("seed failed: %w", err)
	}

	s.logger.Info("Database seeded",
		"users", report.Users,
		"courses", report.Courses,
		"assignments", report.Assignments,
		"enrollments", report.Enrollments)

	cache.InvalidateFacultyDashboards(ctx, s.cache)
	cache.InvalidateCampus(ctx, s.cache)

	return report, nil
}

func (s *seedService) ensureUser(ctx context.Context, tx repositories.Repository, su seedUser) (*models.User, bool, error) {
	existing, err := tx.User().GetByEmail(ctx, su.email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	password := seedStudentPassword
	switch su.role {
	case models.RoleFaculty:
		password = seedFacultyPassword
	case models.RoleAdmin:
		password = seedAdminPassword
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, false, err
	}

	u := &models.User{
		Name:         su.name,
		Email:        su.email,
		PasswordHash: hash,
		Role:         su.role,
		Department:   su.department,
	}
	if su.code != "" {
		code := su.code
		u.StudentCode = &code
	}
	if err := tx.User().Create(ctx, u); err != nil {
		return nil, false, err
	}
	return u, true, nil
}

func (s *seedService) ensureCourse(ctx context.Context, tx repositories.Repository, sc seedCourse, faculty *models.User) (*models.Course, bool, error) {
	existing, err := tx.Course().GetByCode(ctx, sc.code)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	c := &models.Course{
		Code:        sc.code,
		Name:        sc.name,
		Department:  "Computer Science",
		Degree:      sc.degree,
		Duration:    sc.duration,
		Description: sc.description,
	}
	if faculty != nil {
		c.FacultyID = &faculty.ID
	}
	if err := tx.Course().Create(ctx, c); err != nil {
		return nil, false, err
	}
	return c, true, nil
}

func (s *seedService) ensureEnrollment(ctx context.Context, tx repositories.Repository, c *models.Course, codes []string, users map[string]*models.User) (int, error) {
	missing := make([]models.User, 0, len(codes))
	for _, code := range codes {
		u, ok := users[code]
		if !ok {
			continue
		}
		enrolled, err := tx.Course().IsEnrolled(ctx, c.ID, u.ID)
		if err != nil {
			return 0, err
		}
		if !enrolled {
			missing = append(missing, *u)
		}
	}
	if err := tx.Course().AddStudents(ctx, c, missing); err != nil {
		return 0, err
	}
	return len(missing), nil
}

func (s *seedService) ensureAssignment(ctx context.Context, tx repositories.Repository, c *models.Course, sa seedAssignment) (bool, error) {
	if c == nil {
		return false, nil
	}
	_, err := tx.Assignment().GetByCourseAndTitle(ctx, c.ID, sa.title)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	due := sa.due
	return true, tx.Assignment().Create(ctx, &models.Assignment{
		CourseID:    c.ID,
		Title:       sa.title,
		Description: sa.description,
		DueDate:     &due,
	})
}
