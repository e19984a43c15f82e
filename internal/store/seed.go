package store

import (
	"context"
	"time"

	"paygo-hire/internal/models"
)

// Seed loads demo data into a fresh store. Used by the --seed server mode
// so the API has jobs, candidates and a billing history to show.
func Seed(ctx context.Context, mem *Memory, now time.Time) error {
	candidates := []models.Candidate{
		{ID: "c1", Name: "Alice Johnson", Email: "alice.johnson@example.com", Title: "Senior Frontend Developer",
			Summary:         "8 years of experience with React, TypeScript, and Next.js. Passionate about building scalable and accessible UIs.",
			BackgroundCheck: models.BackgroundCheckCompleted},
		{ID: "c2", Name: "Bob Williams", Email: "bob.williams@example.com", Title: "Frontend Developer",
			Summary:         "3 years of experience in Vue and Tailwind CSS. Strong eye for design and user experience.",
			BackgroundCheck: models.BackgroundCheckNotStarted},
		{ID: "c3", Name: "Charlie Brown", Email: "charlie.brown@example.com", Title: "Full Stack Engineer",
			Summary:         "5 years experience with Node.js, Python, and React. Built and maintained several high-traffic applications.",
			BackgroundCheck: models.BackgroundCheckCompleted},
		{ID: "c4", Name: "Diana Prince", Email: "diana.prince@example.com", Title: "UI/UX Designer",
			Summary:         "Specializes in user-centered design principles and has a portfolio of visually stunning mobile and web apps.",
			BackgroundCheck: models.BackgroundCheckCompleted},
		{ID: "c5", Name: "Ethan Hunt", Email: "ethan.hunt@example.com", Title: "DevOps Engineer",
			Summary:         "Expert in AWS, Docker, and Kubernetes. Focuses on CI/CD pipelines and infrastructure automation.",
			BackgroundCheck: models.BackgroundCheckPending},
		{ID: "c6", Name: "Fiona Glenanne", Email: "fiona.glenanne@example.com", Title: "Product Manager",
			Summary:         "Drives product strategy from concept to launch. Skilled in agile methodologies and market analysis.",
			BackgroundCheck: models.BackgroundCheckNotStarted},
		{ID: "c7", Name: "George Costanza", Email: "george.costanza@example.com", Title: "Data Scientist",
			Summary:         "Ph.D. in Statistics. Proficient in Python, R, and machine learning frameworks for predictive modeling.",
			BackgroundCheck: models.BackgroundCheckNotStarted},
	}
	for i := range candidates {
		if err := mem.Candidates().Put(ctx, &candidates[i]); err != nil {
			return err
		}
	}

	jobs := []models.Job{
		{ID: "job1", Title: "Senior React Developer", Location: "Remote", Salary: "$120,000 - $150,000",
			Description: "We are looking for an experienced React Developer to join our team. You will be responsible for building and maintaining our core web application, working with a modern tech stack including TypeScript, GraphQL, and Next.js.",
			Status:      models.JobStatusActive, CreatedAt: now.Add(-5 * 24 * time.Hour)},
		{ID: "job2", Title: "Cloud Infrastructure Engineer", Location: "New York, NY", Salary: "$140,000 - $170,000",
			Description: "Seeking a Cloud Infrastructure Engineer with deep knowledge of AWS services. The ideal candidate will help us scale our infrastructure, improve reliability, and automate our deployment processes.",
			Status:      models.JobStatusActive, CreatedAt: now.Add(-10 * 24 * time.Hour)},
		{ID: "job3", Title: "Lead Product Designer", Location: "San Francisco, CA (Hybrid)", Salary: "$160,000 - $190,000",
			Description: "We are seeking a Lead Product Designer to own the user experience for our flagship product. You will lead a team of designers and work closely with product and engineering to create intuitive and beautiful interfaces.",
			Status:      models.JobStatusClosed, CreatedAt: now.Add(-2 * 24 * time.Hour)},
		{ID: "job4", Title: "Data Scientist, Machine Learning", Location: "Austin, TX", Salary: "$130,000 - $160,000",
			Description: "Join our data science team to build machine learning models that solve real-world problems. Experience with NLP and computer vision is a plus.",
			Status:      models.JobStatusDraft, CreatedAt: now.Add(-24 * time.Hour)},
	}
	for i := range jobs {
		if err := mem.Jobs().Create(ctx, &jobs[i]); err != nil {
			return err
		}
	}

	applications := []models.Application{
		{ID: "app1", JobID: "job1", CandidateID: "c1", Status: "Interviewing",
			AppliedDate: now.Add(-4 * 24 * time.Hour), UpdatedAt: now.Add(-24 * time.Hour)},
		{ID: "app2", JobID: "job1", CandidateID: "c2", Status: "Applied",
			AppliedDate: now.Add(-3 * 24 * time.Hour), UpdatedAt: now.Add(-3 * 24 * time.Hour)},
		{ID: "app3", JobID: "job1", CandidateID: "c3", Status: "Offer",
			AppliedDate: now.Add(-4 * 24 * time.Hour), UpdatedAt: now.Add(-12 * time.Hour)},
		{ID: "app4", JobID: "job3", CandidateID: "c4", Status: "Hired",
			AppliedDate: now.Add(-9 * 24 * time.Hour), UpdatedAt: now.Add(-3 * 24 * time.Hour)},
		{ID: "app5", JobID: "job2", CandidateID: "c5", Status: "Screening",
			AppliedDate: now.Add(-8 * 24 * time.Hour), UpdatedAt: now.Add(-2 * 24 * time.Hour)},
	}
	for i := range applications {
		if err := mem.Applications().Create(ctx, &applications[i]); err != nil {
			return err
		}
	}

	billing := []models.BillingItem{
		{ID: "b1", Service: "Job Posting", AmountCents: 5000, Date: now.Add(-10 * 24 * time.Hour),
			Description: "Job Post: Cloud Infrastructure Engineer"},
		{ID: "b2", Service: "Job Posting", AmountCents: 5000, Date: now.Add(-5 * 24 * time.Hour),
			Description: "Job Post: Senior React Developer"},
		{ID: "b3", Service: "Successful Hire Fee", AmountCents: 50000, Date: now.Add(-3 * 24 * time.Hour),
			Description: "Successful Hire: Diana Prince for Lead Product Designer"},
		{ID: "b4", Service: "Background Check", AmountCents: 2500, Date: now.Add(-6 * 24 * time.Hour),
			Description: "Background Check for Alice Johnson"},
	}
	for i := range billing {
		if err := mem.Ledger().Append(ctx, &billing[i]); err != nil {
			return err
		}
	}

	// The oldest seeded charge anchors the discount window.
	if _, err := mem.Discount().RecordStart(ctx, now.Add(-10*24*time.Hour)); err != nil {
		return err
	}

	return nil
}
