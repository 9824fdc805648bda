// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"context"

	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-tracker/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-tracker/internal/errors"
	"github.com/KirkDiggler/rpg-tracker/internal/repositories/ledger"
	ledgermock "github.com/KirkDiggler/rpg-tracker/internal/repositories/ledger/mock"
)

// ExpectCharacterGet sets up a GetCharacter expectation. A nil character
// returns NotFound.
func ExpectCharacterGet(ctx context.Context, mockRepo *ledgermock.MockRepository, characterID string, character *dnd5e.Character) {
	call := mockRepo.EXPECT().
		GetCharacter(ctx, ledger.GetCharacterInput{CharacterID: characterID})
	if character == nil {
		call.Return(nil, errors.NotFoundf("character with ID %s not found", characterID))
		return
	}
	call.Return(&ledger.GetCharacterOutput{Character: character}, nil)
}

// ExpectSnapshotReads sets up every read the snapshot builder makes after
// finding the character. Records are split into latest-wins and history the
// way a store would.
func ExpectSnapshotReads(ctx context.Context, mockRepo *ledgermock.MockRepository, characterID string, records []*ledger.Record) {
	latest := map[ledger.Kind]map[string]*ledger.Record{
		ledger.KindAbility: {},
		ledger.KindSkill:   {},
		ledger.KindCoins:   {},
	}
	var history []*ledger.Record
	for _, rec := range records {
		if ledger.IsLatestWins(rec.Kind) {
			latest[rec.Kind][rec.Key] = rec
			continue
		}
		if rec.Kind != ledger.KindSpellCast {
			history = append(history, rec)
		}
	}

	for kind, byKey := range latest {
		mockRepo.EXPECT().
			Latest(ctx, ledger.LatestInput{CharacterID: characterID, Kind: kind}).
			Return(&ledger.LatestOutput{Records: byKey}, nil)
	}
	mockRepo.EXPECT().
		List(ctx, gomock.Any()).
		Return(&ledger.ListOutput{Records: history}, nil)
}
