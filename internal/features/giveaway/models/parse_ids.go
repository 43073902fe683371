package models

import "regexp"

// Mention tokens as rendered into message text, e.g. "<@123456>" or "<@!123456>".
var mentionRegex = regexp.MustCompile(`<@!?(\d+)>`)

// Raw numeric user id.
var rawIDRegex = regexp.MustCompile(`^\d+$`)

// Mention renders a user id as a mention token.
func Mention(userID string) string {
	return "<@" + userID + ">"
}

// ParseMentionIDs extracts the unique user ids mentioned across the given
// texts, in first-seen order. This is how reroll reconstructs an eligible
// pool once the registry record is gone.
func ParseMentionIDs(texts ...string) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, text := range texts {
		for _, match := range mentionRegex.FindAllStringSubmatch(text, -1) {
			id := match[1]
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

// ParseUserRef accepts a user reference given either as a mention token or a
// raw numeric id. Used for the optional host field on creation.
func ParseUserRef(input string) (string, bool) {
	if m := mentionRegex.FindStringSubmatch(input); m != nil && m[0] == input {
		return m[1], true
	}
	if rawIDRegex.MatchString(input) {
		return input, true
	}
	return "", false
}
