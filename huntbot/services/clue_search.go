package services

import (
	"context"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/wanderparty/huntbot/huntbot/config"
	"github.com/wanderparty/huntbot/huntbot/database/models"
	"github.com/wanderparty/huntbot/huntbot/database/repositories"
)

// clueSearchItems implements fuzzy.Source over clue prompts.
type clueSearchItems []clueSearchItem

type clueSearchItem struct {
	Clue *models.Clue
	Text string
}

func (c clueSearchItems) String(i int) string { return c[i].Text }
func (c clueSearchItems) Len() int            { return len(c) }

// ClueSearchService finds clues across a hunt by fuzzy-matching their
// prompts, for the admin findclue command and autocomplete.
type ClueSearchService struct {
	clues repositories.ClueRepository
}

func NewClueSearchService(clues repositories.ClueRepository) *ClueSearchService {
	return &ClueSearchService{clues: clues}
}

// SearchClues ranks every clue in the hunt against query and returns the
// best matches, capped at MaxSearchResults.
func (s *ClueSearchService) SearchClues(ctx context.Context, huntID, query string) ([]*models.Clue, error) {
	ctx, cancel := context.WithTimeout(ctx, config.SearchTimeout)
	defer cancel()

	sets, err := s.clues.GetClueSetsByHunt(ctx, huntID)
	if err != nil {
		return nil, err
	}

	var items clueSearchItems
	for _, set := range sets {
		clues, err := s.clues.GetCluesByClueSet(ctx, set.ID)
		if err != nil {
			return nil, err
		}
		for _, c := range clues {
			items = append(items, clueSearchItem{Clue: c, Text: normalizeQuery(c.Prompt)})
		}
	}
	if len(items) == 0 {
		return nil, nil
	}

	matches := fuzzy.FindFrom(normalizeQuery(query), items)
	if len(matches) > config.MaxSearchResults {
		matches = matches[:config.MaxSearchResults]
	}

	results := make([]*models.Clue, len(matches))
	for i, match := range matches {
		results[i] = items[match.Index].Clue
	}
	return results, nil
}

func normalizeQuery(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
