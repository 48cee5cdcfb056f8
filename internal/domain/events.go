package domain

// EventName identifies a party event. The engine only recognizes the names
// below; unknown events are ignored by every rule module.
type EventName string

const (
	EventCommunicationReceived     EventName = "COMMUNICATION_RECEIVED"
	EventCommunicationSent         EventName = "COMMUNICATION_SENT"
	EventCommunicationMissedCall   EventName = "COMMUNICATION_MISSED_CALL"
	EventCommunicationAnsweredCall EventName = "COMMUNICATION_ANSWERED_CALL"

	EventContactInfoAdded   EventName = "CONTACT_INFO_ADDED"
	EventContactInfoRemoved EventName = "CONTACT_INFO_REMOVED"

	EventPartyCreated       EventName = "PARTY_CREATED"
	EventPartyClosed        EventName = "PARTY_CLOSED"
	EventPartyArchived      EventName = "PARTY_ARCHIVED"
	EventPartyMerged        EventName = "PARTY_MERGED"
	EventPartyMovingOut     EventName = "PARTY_MOVING_OUT"
	EventPartyMemberAdded   EventName = "PARTY_MEMBER_ADDED"
	EventPartyMemberRemoved EventName = "PARTY_MEMBER_REMOVED"

	EventLeaseCreated        EventName = "LEASE_CREATED"
	EventLeaseRenewalCreated EventName = "LEASE_RENEWAL_CREATED"
	EventLeaseVersionCreated EventName = "LEASE_VERSION_CREATED"
	EventLeaseSigned         EventName = "LEASE_SIGNED"
	EventLeaseCountersigned  EventName = "LEASE_COUNTERSIGNED"
	EventLeaseExecuted       EventName = "LEASE_EXECUTED"
	EventLeaseVoided         EventName = "LEASE_VOIDED"

	EventApplicationStatusUpdated   EventName = "APPLICATION_STATUS_UPDATED"
	EventScreeningResponseProcessed EventName = "SCREENING_RESPONSE_PROCESSED"

	EventQuotePublished        EventName = "QUOTE_PUBLISHED"
	EventQuotePrinted          EventName = "QUOTE_PRINTED"
	EventQuotePromotionUpdated EventName = "QUOTE_PROMOTION_UPDATED"

	EventCancelMoveOut      EventName = "CANCEL_MOVE_OUT"
	EventRenewalReminderDue EventName = "RENEWAL_REMINDER_DUE"

	EventPetAdded      EventName = "PET_ADDED"
	EventPetRemoved    EventName = "PET_REMOVED"
	EventDocumentAdded EventName = "DOCUMENT_ADDED"
)

// TaskName identifies a task type; one rule module exists per name.
type TaskName string

const (
	TaskIntroduceYourself            TaskName = "INTRODUCE_YOURSELF"
	TaskCallBack                     TaskName = "CALL_BACK"
	TaskCompleteContactInfo          TaskName = "COMPLETE_CONTACT_INFO"
	TaskCountersignLease             TaskName = "COUNTERSIGN_LEASE"
	TaskPromoteApplication           TaskName = "PROMOTE_APPLICATION"
	TaskReviewApplication            TaskName = "REVIEW_APPLICATION"
	TaskRemoveAnonymousEmail         TaskName = "REMOVE_ANONYMOUS_EMAIL"
	TaskCollectServiceAnimalDoc      TaskName = "COLLECT_SERVICE_ANIMAL_DOC"
	TaskCollectEmergencyContact      TaskName = "COLLECT_EMERGENCY_CONTACT"
	TaskContactPartyDeclinedDecision TaskName = "CONTACT_PARTY_DECLINED_DECISION"
	TaskSendRenewalQuote             TaskName = "SEND_RENEWAL_QUOTE"
	TaskSendRenewalReminder          TaskName = "SEND_RENEWAL_REMINDER"
)

// DocumentTypeServiceAnimal marks an uploaded service-animal certification.
const DocumentTypeServiceAnimal = "serviceAnimal"
