package profile

// Settings keys match the stored jsonb document, so the privateAccount
// default applied by the schema round-trips unchanged.
type Settings struct {
	Theme          string `json:"theme"`
	Language       string `json:"language"`
	PrivateAccount bool   `json:"privateAccount"`
}

func DefaultSettings() Settings {
	return Settings{Theme: "dark", Language: "en", PrivateAccount: true}
}

type Profile struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Handle           string   `json:"handle"`
	AvatarURL        string   `json:"avatar_url"`
	Region           string   `json:"region"`
	Location         string   `json:"location"`
	Friends          []string `json:"friends"`
	IncomingRequests []string `json:"incoming_requests"`
	OutgoingRequests []string `json:"outgoing_requests"`
	Settings         Settings `json:"settings"`
}

// IsFriend reports whether userID is in the profile's friend set.
func (p Profile) IsFriend(userID string) bool {
	for _, id := range p.Friends {
		if id == userID {
			return true
		}
	}
	return false
}

func (p *Profile) normalize() {
	if p.Friends == nil {
		p.Friends = []string{}
	}
	if p.IncomingRequests == nil {
		p.IncomingRequests = []string{}
	}
	if p.OutgoingRequests == nil {
		p.OutgoingRequests = []string{}
	}
}
