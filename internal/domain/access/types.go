package access

// AccessState is the effective product access for UI decisions:
// trial|full|limited|locked.
type AccessState string

const (
	AccessTrial   AccessState = "trial"
	AccessFull    AccessState = "full"
	AccessLimited AccessState = "limited"
	AccessLocked  AccessState = "locked"
)
