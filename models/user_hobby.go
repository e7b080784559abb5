package models

// UserHobby joins a user to a hobby name. Reference data owned by the profile
// subsystem, read here for compatibility checks and question personalization.
type UserHobby struct {
	UserID    string `dynamodbav:"userId" json:"userId"`
	HobbyName string `dynamodbav:"hobbyName" json:"hobbyName"`
}

// UserHobbiesTable is the DynamoDB table name for user-hobby joins
const UserHobbiesTable = "UserHobbies"
