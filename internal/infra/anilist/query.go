package anilist

// favoritesQuery fetches one page of a user's favorite characters.
const favoritesQuery = `query ($user: String, $page: Int) {
  User(name: $user) {
    favourites {
      characters(page: $page) {
        nodes {
          id
          name {
            full
          }
          siteUrl
          dateOfBirth {
            year
            month
            day
          }
        }
        pageInfo {
          hasNextPage
        }
      }
    }
  }
}`

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables queryVariables `json:"variables"`
}

type queryVariables struct {
	User string `json:"user"`
	Page int    `json:"page"`
}

type graphQLResponse struct {
	Data   *responseData  `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type graphQLError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type responseData struct {
	User *userNode `json:"User"`
}

type userNode struct {
	Favourites *favouritesNode `json:"favourites"`
}

type favouritesNode struct {
	Characters *characterConnection `json:"characters"`
}

type characterConnection struct {
	Nodes    []*characterNode `json:"nodes"`
	PageInfo *pageInfo        `json:"pageInfo"`
}

type pageInfo struct {
	HasNextPage *bool `json:"hasNextPage"`
}

type characterNode struct {
	ID          int        `json:"id"`
	Name        *nameNode  `json:"name"`
	SiteURL     string     `json:"siteUrl"`
	DateOfBirth *fuzzyDate `json:"dateOfBirth"`
}

type nameNode struct {
	Full string `json:"full"`
}

// fuzzyDate is AniList's partial date; any field may be null.
type fuzzyDate struct {
	Year  *int `json:"year"`
	Month *int `json:"month"`
	Day   *int `json:"day"`
}
