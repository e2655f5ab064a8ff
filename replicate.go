package casgate

// UserReplicator is called with every user whose ticket was validated. An error
// is logged and does not change how the request is handled.
type UserReplicator func(username string, attributes UserAttributes) error
