package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-dog-finder/internal/domains/dogs/domain"
	"github.com/Apurer/go-dog-finder/internal/domains/dogs/ports"
	apperrors "github.com/Apurer/go-dog-finder/internal/shared/errors"
)

func TestRequestMatch_EmptyFavoritesMakesNoCalls(t *testing.T) {
	cat := seededCatalog()
	m := NewMatcher(cat, nil)

	_, err := m.RequestMatch(context.Background(), nil)

	require.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	require.Equal(t, apperrors.MsgNeedFavorite, apperrors.UserMessage(err))
	_, hydrates, matches := cat.counts()
	require.Zero(t, hydrates)
	require.Zero(t, matches)
}

func TestRequestMatch_SendsFavoritesInOrderAndShowsDog(t *testing.T) {
	cat := seededCatalog()
	cat.matchID = "b"
	m := NewMatcher(cat, nil)
	favs := domain.NewFavorites()
	favs.Toggle(domain.Dog{ID: "c"})
	favs.Toggle(domain.Dog{ID: "b"})
	favs.Toggle(domain.Dog{ID: "a"})

	result, err := m.RequestMatch(context.Background(), favs.List())

	require.NoError(t, err)
	require.Equal(t, [][]string{{"c", "b", "a"}}, cat.matchCalls)
	require.Equal(t, [][]string{{"b"}}, cat.hydrateCalls)
	require.True(t, result.Visible)
	require.Equal(t, "Bo", result.Dog.Name)

	m.Dismiss()
	current, ok := m.Current()
	require.True(t, ok)
	require.False(t, current.Visible)
	require.Equal(t, 3, favs.Len())
}

func TestRequestMatch_Failures(t *testing.T) {
	tests := []struct {
		name     string
		matchID  string
		matchErr error
		kind     apperrors.Kind
		target   error
	}{
		{name: "service error", matchErr: errors.New("status 500"), kind: apperrors.KindFetch},
		{name: "unauthorized", matchErr: ports.ErrUnauthorized, kind: apperrors.KindSessionExpired},
		{name: "empty id", matchID: "", kind: apperrors.KindFetch, target: ErrEmptyMatch},
		{name: "unknown id", matchID: "zzz", kind: apperrors.KindFetch, target: ErrMatchNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := seededCatalog()
			cat.matchID, cat.matchErr = tt.matchID, tt.matchErr
			exp := &countingExpirer{}
			m := NewMatcher(cat, exp)

			_, err := m.RequestMatch(context.Background(), []domain.Dog{{ID: "a"}})

			require.True(t, apperrors.IsKind(err, tt.kind), "%v", err)
			if tt.target != nil {
				require.ErrorIs(t, err, tt.target)
			}
			if tt.kind == apperrors.KindSessionExpired {
				require.Equal(t, 1, exp.count())
			}
			_, ok := m.Current()
			require.False(t, ok)
		})
	}
}

func TestMatcher_Reset(t *testing.T) {
	cat := seededCatalog()
	cat.matchID = "a"
	m := NewMatcher(cat, nil)
	_, err := m.RequestMatch(context.Background(), []domain.Dog{{ID: "a"}})
	require.NoError(t, err)

	m.Reset()

	_, ok := m.Current()
	require.False(t, ok)
}
