// Package campaign decomposes the pipe-and-underscore delimited mini-record
// embedded in structured line descriptions:
//
//	agency "|" project_id "|" free_text "_[" marker "]|" campaign_id
//
// where free_text is project_name "_none_" objective "_" campaign_type,
// optionally followed by extra underscore-joined tokens. A missing anchor
// short-circuits the parse: the result is either a fully populated code or
// nothing, never a partially filled guess.
package campaign

import (
	"regexp"
	"strings"

	"adrecon/internal/domain"
)

// leadAnchorPattern locates the agency marker and its pipe separator.
var leadAnchorPattern = regexp.MustCompile(`(?:^|\s)([a-z]{2,4})\|`)

// periodPattern recognizes an optional time-period token among the extras,
// e.g. "0101-0131" or "Jan24".
var periodPattern = regexp.MustCompile(`^(?:\d{2,4}[-/]\d{2,4}|[A-Z][a-z]{2}\d{2,4})$`)

const noneToken = "none"

// Parse extracts a CampaignCode from a line description, or returns nil when
// the description does not carry the grammar. Absence is a normal outcome
// for free-form documents and must not be treated as an error by callers.
func Parse(description string) *domain.CampaignCode {
	loc := leadAnchorPattern.FindStringSubmatchIndex(description)
	if loc == nil {
		return nil
	}
	agency := description[loc[2]:loc[3]]
	rest := description[loc[1]:]

	// First pipe: project id.
	projectID, rest, ok := strings.Cut(rest, "|")
	if !ok {
		return nil
	}

	// The middle section runs up to the bracketed marker; the campaign id
	// follows the closing-bracket-pipe anchor.
	middle, tail, ok := strings.Cut(rest, "_[")
	if !ok {
		return nil
	}
	_, afterBracket, ok := strings.Cut(tail, "]|")
	if !ok {
		return nil
	}
	campaignID := firstToken(afterBracket)

	tokens := strings.Split(middle, "_")
	noneIdx := -1
	for i, tok := range tokens {
		if tok == noneToken {
			noneIdx = i
			break
		}
	}
	if noneIdx <= 0 || noneIdx+1 >= len(tokens) {
		return nil
	}
	projectName := strings.Join(tokens[:noneIdx], "_")
	objective := tokens[noneIdx+1]
	period := findPeriod(tokens[noneIdx+2:])

	code := &domain.CampaignCode{
		Agency:      agency,
		ProjectID:   strings.TrimSpace(projectID),
		ProjectName: projectName,
		Objective:   objective,
		Period:      period,
		CampaignID:  campaignID,
	}
	if !complete(code) {
		return nil
	}
	return code
}

// complete enforces the completeness-or-absence contract: every required
// field parsed, or no code at all.
func complete(c *domain.CampaignCode) bool {
	return c.Agency != "" &&
		c.ProjectID != "" &&
		c.ProjectName != "" &&
		c.Objective != "" &&
		c.CampaignID != ""
}

func findPeriod(extras []string) string {
	for _, tok := range extras {
		if periodPattern.MatchString(tok) {
			return tok
		}
	}
	return ""
}

func firstToken(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexFunc(s, func(r rune) bool { return r == ' ' || r == '|' }); i >= 0 {
		s = s[:i]
	}
	return s
}
