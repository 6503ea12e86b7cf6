package enums

// TokenTypeBearer is the credential scheme the studio backend returns in
// SessionInformation.Type.
const TokenTypeBearer = "Bearer"
