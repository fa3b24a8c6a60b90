package types

// Event types for the Oracle module
// All event types use lowercase with underscore separator (module_action format)
const (
	// Feed events
	EventTypeFeedCreated = "oracle_feed_created"

	// Submission and consensus events
	EventTypeDataSubmitted      = "oracle_data_submitted"
	EventTypeConsensusFinalized = "oracle_consensus_finalized"
	EventTypeReputationUpdated  = "oracle_reputation_updated"

	// Security events
	EventTypeOracleSlash = "oracle_slash"

	// Admin events
	EventTypePauseToggled      = "oracle_pause_toggled"
	EventTypeEmergencyAdminSet = "oracle_emergency_admin_set"
)

// Event attribute keys for the Oracle module
// All attribute keys use lowercase with underscore separator
const (
	// Feed attributes
	AttributeKeyFeedID   = "feed_id"
	AttributeKeyFeedName = "feed_name"
	AttributeKeyWindowID = "window_id"
	AttributeKeyRound    = "round"

	// Price attributes
	AttributeKeyPrice          = "price"
	AttributeKeyConsensusPrice = "consensus_price"
	AttributeKeyBurnAmount     = "burn_amount"
	AttributeKeyWeight         = "weight"
	AttributeKeyParticipants   = "participants"

	// Reporter attributes
	AttributeKeyReporter = "reporter"
	AttributeKeyScore    = "score"
	AttributeKeyAccurate = "accurate"

	// Admin attributes
	AttributeKeyActor          = "actor"
	AttributeKeyPaused         = "paused"
	AttributeKeyEmergencyAdmin = "emergency_admin"

	// Block attributes
	AttributeKeyBlockHeight = "block_height"
	AttributeKeyTimestamp   = "timestamp"
)
