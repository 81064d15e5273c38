package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/hearthfire/questboard/internal/model"
)

func TestEncodeDocument_RendersCanonicalIDs(t *testing.T) {
	t.Parallel()

	uid, err := model.NewUserID(42)
	require.NoError(t, err)
	user := model.NewUser(uid)
	user.EnableReferee()

	doc, err := encodeDocument(user)
	require.NoError(t, err)

	assert.Equal(t, "USER0042", doc["user_id"])
	roles, ok := doc["roles"].([]interface{})
	require.True(t, ok)
	assert.Len(t, roles, 3)
	assert.NotNil(t, doc["player"])
	assert.NotNil(t, doc["referee"])
}

func TestDecodeDocument_RoundTrip(t *testing.T) {
	t.Parallel()

	qid, err := model.NewQuestID(7)
	require.NoError(t, err)
	uid, err := model.NewUserID(3)
	require.NoError(t, err)

	quest := model.NewQuest(qid, uid, "Deep Carbon Observatory", time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC))
	require.NoError(t, quest.Announce(nil, nil, nil, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)))

	doc, err := encodeDocument(quest)
	require.NoError(t, err)

	var decoded model.Quest
	require.NoError(t, decodeDocument(doc, &decoded))

	assert.Equal(t, quest.QuestID, decoded.QuestID)
	assert.Equal(t, quest.RefereeID, decoded.RefereeID)
	assert.Equal(t, model.QuestStatusSignupOpen, decoded.Status)
	assert.Equal(t, quest.Name, decoded.Name)
	assert.True(t, quest.CreatedAt.Equal(decoded.CreatedAt))
}

func TestDecodeDocument_RejectsMalformedID(t *testing.T) {
	t.Parallel()

	doc := map[string]interface{}{
		"user_id": "BOGUS1",
		"roles":   []interface{}{"MEMBER"},
	}
	var user model.User
	assert.Error(t, decodeDocument(doc, &user))
}

func TestNormalizeValue_DriverTypes(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 5, 4, 12, 30, 0, 0, time.UTC)
	raw := map[string]interface{}{
		"id":         models.RecordID{Table: "quest", ID: "QUES0042"},
		"created_at": models.CustomDateTime{Time: at},
		"signups": []interface{}{
			map[string]interface{}{"applied_at": models.CustomDateTime{Time: at}},
		},
	}

	normalized, ok := normalizeValue(raw).(map[string]interface{})
	require.True(t, ok)

	assert.Equal(t, "QUES0042", normalized["id"])
	assert.Equal(t, at.Format(time.RFC3339Nano), normalized["created_at"])

	signups, ok := normalized["signups"].([]interface{})
	require.True(t, ok)
	entry, ok := signups[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, at.Format(time.RFC3339Nano), entry["applied_at"])
}

func TestExtractQueryResults(t *testing.T) {
	t.Parallel()

	wrapped := []interface{}{
		map[string]interface{}{
			"status": "OK",
			"result": []interface{}{
				map[string]interface{}{"user_id": "USER0001"},
			},
		},
	}
	rows, ok := extractQueryResults(wrapped)
	require.True(t, ok)
	assert.Len(t, rows, 1)

	_, ok = extractQueryResults([]interface{}{})
	assert.False(t, ok)
}
