package orders

const (
	TopicListCreated       = "lists.created"
	TopicListDeleted       = "lists.deleted"
	TopicOrderCreated      = "lists.order.created"
	TopicOrderUpdated      = "lists.order.updated"
	TopicOrderDeleted      = "lists.order.deleted"
	TopicFeedbackSubmitted = "feedback.submitted"
)

// Partition key = list_id, so all events of one list keep their order.
func PartitionKey(listID string) []byte { return []byte(listID) }
