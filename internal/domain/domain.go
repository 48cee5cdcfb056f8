package domain

import "time"

// WorkflowName classifies the lifecycle track a party is on.
type WorkflowName string

const (
	WorkflowNewLease    WorkflowName = "newLease"
	WorkflowRenewal     WorkflowName = "renewal"
	WorkflowActiveLease WorkflowName = "activeLease"
)

// WorkflowState is the stage of the party within its workflow.
type WorkflowState string

const (
	WorkflowStateActive    WorkflowState = "active"
	WorkflowStateMovingOut WorkflowState = "movingOut"
	WorkflowStateClosed    WorkflowState = "closed"
	WorkflowStateArchived  WorkflowState = "archived"
)

// LeaseType distinguishes traditional from corporate parties.
type LeaseType string

const (
	LeaseTypeTraditional LeaseType = "traditional"
	LeaseTypeCorporate   LeaseType = "corporate"
)

type TaskState string

const (
	TaskActive    TaskState = "Active"
	TaskCompleted TaskState = "Completed"
	TaskCanceled  TaskState = "Canceled"
)

type TaskCategory string

const (
	CategoryParty       TaskCategory = "Party"
	CategoryContactInfo TaskCategory = "ContactInfo"
	CategoryLease       TaskCategory = "Lease"
	CategoryApplication TaskCategory = "Application"
	CategoryQuote       TaskCategory = "Quote"
	CategoryDocuments   TaskCategory = "RequiredDocuments"
)

// SystemUser is recorded as completedBy when no user drove the completion.
const SystemUser = "SYSTEM"

// TaskMetadata carries the scope and bookkeeping fields of a task.
// Unique marks "at most one active task of this name+scope"; PersonID is set
// when the task concerns a single party member.
type TaskMetadata struct {
	Unique          bool     `json:"unique,omitempty"`
	PersonID        string   `json:"personId,omitempty"`
	CreatedByType   string   `json:"createdByType,omitempty"`
	CompletedBy     string   `json:"completedBy,omitempty"`
	LeaseID         string   `json:"leaseId,omitempty"`
	CompletedLeases []string `json:"completedLeases,omitempty"`
	QuoteIDs        []string `json:"quoteIds,omitempty"`
}

// Task is a unit-of-work record surfaced to leasing agents. The engine only
// emits desired tasks and patches; the external task store owns identity and
// persistence. A task with an empty ID is a new task, one with a non-empty ID
// and partial fields is a patch.
type Task struct {
	ID             string       `json:"id,omitempty"`
	Name           TaskName     `json:"name"`
	Category       TaskCategory `json:"category,omitempty"`
	PartyID        string       `json:"partyId,omitempty"`
	UserIDs        []string     `json:"userIds,omitempty"`
	State          TaskState    `json:"state,omitempty"`
	DueDate        time.Time    `json:"dueDate,omitempty"`
	CompletionDate *time.Time   `json:"completionDate,omitempty"`
	Metadata       TaskMetadata `json:"metadata,omitempty"`
}

// EventMetadata holds the optional, event-specific payload fields the rule
// modules inspect. Absent fields are zero values.
type EventMetadata struct {
	IsLeadCreated                bool     `json:"isLeadCreated,omitempty"`
	CommunicationID              string   `json:"communicationId,omitempty"`
	LeaseID                      string   `json:"leaseId,omitempty"`
	QuoteID                      string   `json:"quoteId,omitempty"`
	PromotionStatus              string   `json:"promotionStatus,omitempty"`
	ApplicationStatus            string   `json:"applicationStatus,omitempty"`
	DocumentType                 string   `json:"documentType,omitempty"`
	HandlePromoteApplicationTask bool     `json:"handlePromoteApplicationTask,omitempty"`
	PersonIDs                    []string `json:"personIds,omitempty"`
}

// PartyEvent is a newly observed domain occurrence attached to a dispatch
// cycle. Events are read-only inputs; the engine never creates or mutates
// them.
type PartyEvent struct {
	Event         EventName     `json:"event"`
	Metadata      EventMetadata `json:"metadata,omitempty"`
	UserID        string        `json:"userId,omitempty"`
	PartyMemberID string        `json:"partyMemberId,omitempty"`
}

type MemberType string

const (
	MemberResident  MemberType = "Resident"
	MemberGuarantor MemberType = "Guarantor"
	MemberOccupant  MemberType = "Occupant"
)

type Person struct {
	ID       string `json:"id"`
	FullName string `json:"fullName,omitempty"`
}

// PartyMembership records a person's membership in the party. A non-nil
// EndDate marks the member as removed.
type PartyMembership struct {
	ID       string     `json:"id"`
	PersonID string     `json:"personId"`
	Type     MemberType `json:"memberType,omitempty"`
	EndDate  *time.Time `json:"endDate,omitempty"`
}

type ContactInfo struct {
	DefaultEmail   string `json:"defaultEmail,omitempty"`
	DefaultPhone   string `json:"defaultPhone,omitempty"`
	EmergencyPhone string `json:"emergencyPhone,omitempty"`
}

// Member pairs a person entity with its membership and contact data.
type Member struct {
	Person      Person          `json:"person"`
	PartyMember PartyMembership `json:"partyMember"`
	ContactInfo ContactInfo     `json:"contactInfo,omitempty"`
}

// Active reports whether the member is still part of the party.
func (m Member) Active() bool {
	return m.PartyMember.EndDate == nil
}

type SignerType string

const (
	SignerResident      SignerType = "Resident"
	SignerGuarantor     SignerType = "Guarantor"
	SignerCounterSigner SignerType = "CounterSigner"
)

type SignatureStatus string

const (
	SignatureNotSent   SignatureStatus = "NOT_SENT"
	SignatureSent      SignatureStatus = "SENT"
	SignatureSigned    SignatureStatus = "SIGNED"
	SignatureWetSigned SignatureStatus = "WET_SIGNED"
	SignatureVoided    SignatureStatus = "VOIDED"
)

// Complete reports whether the signature counts as provided.
func (s SignatureStatus) Complete() bool {
	return s == SignatureSigned || s == SignatureWetSigned
}

type Signature struct {
	EnvelopeID    string          `json:"envelopeId"`
	SignerType    SignerType      `json:"signerType"`
	PartyMemberID string          `json:"partyMemberId,omitempty"`
	UserID        string          `json:"userId,omitempty"`
	Status        SignatureStatus `json:"status"`
}

// Envelope groups the signatures collected together for one lease document.
type Envelope struct {
	ID         string      `json:"id"`
	Signatures []Signature `json:"signatures"`
}

type LeaseStatus string

const (
	LeaseDraft     LeaseStatus = "draft"
	LeaseSubmitted LeaseStatus = "submitted"
	LeaseExecuted  LeaseStatus = "executed"
	LeaseVoided    LeaseStatus = "voided"
)

type Lease struct {
	ID        string      `json:"id"`
	Status    LeaseStatus `json:"status"`
	Envelopes []Envelope  `json:"envelopes,omitempty"`
}

// Active reports whether the lease still counts for signature tracking;
// drafts and voided leases do not.
func (l Lease) Active() bool {
	return l.Status == LeaseSubmitted || l.Status == LeaseExecuted
}

type CommDirection string

const (
	CommIn  CommDirection = "in"
	CommOut CommDirection = "out"
)

type CommCategory string

const (
	CommCategoryGeneral CommCategory = "general"
	CommCategoryQuote   CommCategory = "quote"
)

// Comm is a communication (email, call, sms) exchanged with party members.
type Comm struct {
	ID        string        `json:"id"`
	Direction CommDirection `json:"direction"`
	Category  CommCategory  `json:"category,omitempty"`
	PersonIDs []string      `json:"personIds,omitempty"`
	CreatedAt time.Time     `json:"createdAt,omitempty"`
}

type PromotionStatus string

const (
	PromotionPendingApproval PromotionStatus = "pending_approval"
	PromotionApproved        PromotionStatus = "approved"
	PromotionRequiresWork    PromotionStatus = "requires_work"
	PromotionCanceled        PromotionStatus = "canceled"
)

type QuotePromotion struct {
	ID      string          `json:"id"`
	QuoteID string          `json:"quoteId,omitempty"`
	Status  PromotionStatus `json:"status"`
}

// Pending reports whether the promotion still occupies the party's
// promote-application slot.
func (p QuotePromotion) Pending() bool {
	return p.Status == PromotionPendingApproval || p.Status == PromotionApproved
}

type ScreeningStatus string

const (
	ScreeningPending  ScreeningStatus = "pending"
	ScreeningApproved ScreeningStatus = "approved"
	ScreeningDeclined ScreeningStatus = "declined"
	ScreeningFurther  ScreeningStatus = "further_review"
)

// Terminal reports whether the screening request resolved.
func (s ScreeningStatus) Terminal() bool {
	return s == ScreeningApproved || s == ScreeningDeclined || s == ScreeningFurther
}

type ApplicationStatus string

const (
	ApplicationOpen      ApplicationStatus = "open"
	ApplicationCompleted ApplicationStatus = "completed"
	ApplicationDeclined  ApplicationStatus = "declined"
)

type Application struct {
	ID        string            `json:"id"`
	PersonID  string            `json:"personId"`
	Status    ApplicationStatus `json:"status"`
	Screening []ScreeningStatus `json:"screening,omitempty"`
}

type Pet struct {
	ID              string `json:"id"`
	IsServiceAnimal bool   `json:"isServiceAnimal,omitempty"`
}

// ActiveLease points at the prior lease a renewal workflow stems from.
type ActiveLease struct {
	LeaseID string     `json:"leaseId"`
	EndDate *time.Time `json:"endDate,omitempty"`
}

// Party is the read-only, point-in-time aggregate the engine evaluates. It is
// consistent as of the moment the triggering events were recorded; Events
// keep the order supplied by the caller and carry no further ordering
// guarantee.
type Party struct {
	ID              string           `json:"id"`
	UserID          string           `json:"userId,omitempty"`
	WorkflowName    WorkflowName     `json:"workflowName"`
	WorkflowState   WorkflowState    `json:"workflowState"`
	LeaseType       LeaseType        `json:"leaseType,omitempty"`
	EndDate         *time.Time       `json:"endDate,omitempty"`
	Members         []Member         `json:"members,omitempty"`
	Leases          []Lease          `json:"leases,omitempty"`
	Tasks           []Task           `json:"tasks,omitempty"`
	Comms           []Comm           `json:"comms,omitempty"`
	Promotions      []QuotePromotion `json:"promotions,omitempty"`
	Applications    []Application    `json:"applications,omitempty"`
	Pets            []Pet            `json:"pets,omitempty"`
	ActiveLeaseData []ActiveLease    `json:"activeLeaseData,omitempty"`
	Events          []PartyEvent     `json:"events,omitempty"`
}

// Corporate reports whether the party is a corporate one.
func (p *Party) Corporate() bool {
	return p.LeaseType == LeaseTypeCorporate
}

// Ended reports whether the party has been ended; no new tasks are created
// on an ended party.
func (p *Party) Ended() bool {
	return p.EndDate != nil
}

// ActiveMembers returns members without an end date.
func (p *Party) ActiveMembers() []Member {
	var out []Member
	for _, m := range p.Members {
		if m.Active() {
			out = append(out, m)
		}
	}
	return out
}

// ActiveResidents returns active members that are expected to sign leases
// and receive quotes.
func (p *Party) ActiveResidents() []Member {
	var out []Member
	for _, m := range p.ActiveMembers() {
		if m.PartyMember.Type == MemberResident {
			out = append(out, m)
		}
	}
	return out
}

// MemberByPersonID looks a member up by person id, removed members included.
func (p *Party) MemberByPersonID(personID string) (Member, bool) {
	for _, m := range p.Members {
		if m.Person.ID == personID {
			return m, true
		}
	}
	return Member{}, false
}
