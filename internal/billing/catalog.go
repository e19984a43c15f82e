package billing

// ServiceKind identifies a purchasable marketplace service.
type ServiceKind string

const (
	ServiceJobPost               ServiceKind = "Job Posting"
	ServiceBackgroundCheck       ServiceKind = "Background Check"
	ServiceSuccessfulHire        ServiceKind = "Successful Hire Fee"
	ServiceAIScreening           ServiceKind = "AI Candidate Screening"
	ServiceSkillAssessment       ServiceKind = "Skill Assessment"
	ServiceVideoInterview        ServiceKind = "Video Interview Service"
	ServiceHRConsultation        ServiceKind = "HR Consultation"
	ServiceRecruitmentAssistance ServiceKind = "Recruitment Assistance"
	ServiceInterviewScheduling   ServiceKind = "Interview Scheduling"
	ServiceAISourcing            ServiceKind = "AI Sourcing Agent"
)

// Catalog is the static price table: service kind to base amount.
type Catalog map[ServiceKind]Amount

// DefaultCatalog returns the standard price table.
func DefaultCatalog() Catalog {
	return Catalog{
		ServiceJobPost:               5000,
		ServiceBackgroundCheck:       2500,
		ServiceSuccessfulHire:        50000,
		ServiceAIScreening:           500,
		ServiceSkillAssessment:       3500,
		ServiceVideoInterview:        1500,
		ServiceHRConsultation:        7500,
		ServiceRecruitmentAssistance: 15000,
		ServiceInterviewScheduling:   2000,
		ServiceAISourcing:            1000,
	}
}

// Price looks up the base price for a service kind.
func (c Catalog) Price(kind ServiceKind) (Amount, bool) {
	amount, ok := c[kind]
	return amount, ok
}

// Kinds lists every service kind present in the catalog.
func (c Catalog) Kinds() []ServiceKind {
	kinds := make([]ServiceKind, 0, len(c))
	for k := range c {
		kinds = append(kinds, k)
	}
	return kinds
}
