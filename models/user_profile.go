package models

// UserProfile is the slice of the profile subsystem's record this core reads.
// Profile CRUD itself lives elsewhere.
type UserProfile struct {
	UserID      string `dynamodbav:"userId" json:"userId"`
	Name        string `dynamodbav:"name" json:"name"`
	Username    string `dynamodbav:"username" json:"username"`
	Location    string `dynamodbav:"location,omitempty" json:"location,omitempty"`
	AvatarURL   string `dynamodbav:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	FigurineURL string `dynamodbav:"figurineUrl,omitempty" json:"figurineUrl,omitempty"`
}

// DisplayName prefers the profile name, then the username, then a neutral label
func (p *UserProfile) DisplayName() string {
	if p == nil {
		return "Opponent"
	}
	if p.Name != "" {
		return p.Name
	}
	if p.Username != "" {
		return p.Username
	}
	return "Opponent"
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"
