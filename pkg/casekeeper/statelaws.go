package casekeeper

import (
	"net/http"

	"github.com/gorilla/mux"
)

// StateLaw points at a state's family law statutes.
type StateLaw struct {
	Statutes string `json:"statutes"`
	Name     string `json:"name"`
}

// stateFamilyLaw maps state names to their family law codes. Static
// reference data, served without authentication.
var stateFamilyLaw = map[string]StateLaw{
	"Alabama":              {"https://law.justia.com/codes/alabama/title-30/", "Title 30 - Marital and Domestic Relations"},
	"Alaska":               {"https://law.justia.com/codes/alaska/title-25/", "Title 25 - Marital and Domestic Relations"},
	"Arizona":              {"https://law.justia.com/codes/arizona/title-25/", "Title 25 - Marital and Domestic Relations"},
	"Arkansas":             {"https://law.justia.com/codes/arkansas/title-9/", "Title 9 - Family Law"},
	"California":           {"https://law.justia.com/codes/california/code-fam/", "California Family Code"},
	"Colorado":             {"https://law.justia.com/codes/colorado/title-14/", "Title 14 - Domestic Matters"},
	"Connecticut":          {"https://law.justia.com/codes/connecticut/title-46b/", "Title 46b - Family Law"},
	"Delaware":             {"https://law.justia.com/codes/delaware/title-13/", "Title 13 - Domestic Relations"},
	"Florida":              {"https://law.justia.com/codes/florida/title-vi/", "Title VI - Civil Practice and Procedure (Chapter 61 - Dissolution of Marriage)"},
	"Georgia":              {"https://law.justia.com/codes/georgia/title-19/", "Title 19 - Domestic Relations"},
	"Hawaii":               {"https://law.justia.com/codes/hawaii/division-3/", "Division 3 - Property; Family"},
	"Idaho":                {"https://law.justia.com/codes/idaho/title-32/", "Title 32 - Domestic Relations"},
	"Illinois":             {"https://law.justia.com/codes/illinois/chapter-750/", "Chapter 750 - Families"},
	"Indiana":              {"https://law.justia.com/codes/indiana/title-31/", "Title 31 - Family Law and Juvenile Law"},
	"Iowa":                 {"https://law.justia.com/codes/iowa/title-xv/", "Title XV - Judicial Branch and Judicial Procedures"},
	"Kansas":               {"https://law.justia.com/codes/kansas/chapter-23/", "Chapter 23 - Domestic Relations"},
	"Kentucky":             {"https://law.justia.com/codes/kentucky/chapter-403/", "Chapter 403 - Dissolution of Marriage"},
	"Louisiana":            {"https://law.justia.com/codes/louisiana/code-civil-code/code-book-i/", "Civil Code Book I - Of Persons"},
	"Maine":                {"https://law.justia.com/codes/maine/title-19-a/", "Title 19-A - Domestic Relations"},
	"Maryland":             {"https://law.justia.com/codes/maryland/family-law/", "Family Law Article"},
	"Massachusetts":        {"https://law.justia.com/codes/massachusetts/part-ii/title-iii/chapter-208/", "Chapter 208 - Divorce"},
	"Michigan":             {"https://law.justia.com/codes/michigan/chapter-722/", "Chapter 722 - Children"},
	"Minnesota":            {"https://law.justia.com/codes/minnesota/chapters-517-519/", "Chapters 517-519 - Marriage and Divorce"},
	"Mississippi":          {"https://law.justia.com/codes/mississippi/title-93/", "Title 93 - Domestic Relations"},
	"Missouri":             {"https://law.justia.com/codes/missouri/title-xxx/", "Title XXX - Domestic Relations"},
	"Montana":              {"https://law.justia.com/codes/montana/title-40/", "Title 40 - Family Law"},
	"Nebraska":             {"https://law.justia.com/codes/nebraska/chapter-42/", "Chapter 42 - Domestic Relations"},
	"Nevada":               {"https://law.justia.com/codes/nevada/title-11/", "Title 11 - Domestic Relations"},
	"New Hampshire":        {"https://law.justia.com/codes/new-hampshire/title-xliii/", "Title XLIII - Domestic Relations"},
	"New Jersey":           {"https://law.justia.com/codes/new-jersey/title-9/", "Title 9 - Children and Domestic Relations"},
	"New Mexico":           {"https://law.justia.com/codes/new-mexico/chapter-40/", "Chapter 40 - Domestic Affairs"},
	"New York":             {"https://law.justia.com/codes/new-york/domestic-relations/", "Domestic Relations Law"},
	"North Carolina":       {"https://law.justia.com/codes/north-carolina/chapter-50/", "Chapter 50 - Divorce and Alimony"},
	"North Dakota":         {"https://law.justia.com/codes/north-dakota/title-14/", "Title 14 - Domestic Relations and Persons"},
	"Ohio":                 {"https://law.justia.com/codes/ohio/title-31/", "Title 31 - Domestic Relations"},
	"Oklahoma":             {"https://law.justia.com/codes/oklahoma/title-43/", "Title 43 - Marriage and Family"},
	"Oregon":               {"https://law.justia.com/codes/oregon/title-11/", "Title 11 - Domestic Relations"},
	"Pennsylvania":         {"https://law.justia.com/codes/pennsylvania/title-23/", "Title 23 - Domestic Relations"},
	"Rhode Island":         {"https://law.justia.com/codes/rhode-island/title-15/", "Title 15 - Domestic Relations"},
	"South Carolina":       {"https://law.justia.com/codes/south-carolina/title-63/", "Title 63 - South Carolina Children's Code"},
	"South Dakota":         {"https://law.justia.com/codes/south-dakota/title-25/", "Title 25 - Domestic Relations"},
	"Tennessee":            {"https://law.justia.com/codes/tennessee/title-36/", "Title 36 - Domestic Relations"},
	"Texas":                {"https://law.justia.com/codes/texas/family-code/", "Texas Family Code"},
	"Utah":                 {"https://law.justia.com/codes/utah/title-30/", "Title 30 - Husband and Wife"},
	"Vermont":              {"https://law.justia.com/codes/vermont/title-15/", "Title 15 - Domestic Relations"},
	"Virginia":             {"https://law.justia.com/codes/virginia/title-20/", "Title 20 - Domestic Relations"},
	"Washington":           {"https://law.justia.com/codes/washington/title-26/", "Title 26 - Domestic Relations"},
	"West Virginia":        {"https://law.justia.com/codes/west-virginia/chapter-48/", "Chapter 48 - Domestic Relations"},
	"Wisconsin":            {"https://law.justia.com/codes/wisconsin/chapter-767/", "Chapter 767 - Actions Affecting the Family"},
	"Wyoming":              {"https://law.justia.com/codes/wyoming/title-20/", "Title 20 - Domestic Relations"},
	"District of Columbia": {"https://law.justia.com/codes/district-of-columbia/division-ii/", "Division II - Family Relations"},
}

func (a *App) handleListStateLaws(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"states": stateFamilyLaw})
}

func (a *App) handleGetStateLaw(w http.ResponseWriter, r *http.Request) {
	state := mux.Vars(r)["state"]
	law, ok := stateFamilyLaw[state]
	if !ok {
		respondError(w, http.StatusNotFound, "state not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"state": state, "data": law})
}
