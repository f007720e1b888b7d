package fallback

import (
	"encoding/json"
	"testing"
)

func TestLookup_AllKeysPresent(t *testing.T) {
	for _, k := range Keys() {
		data, ok := Lookup(k)
		if !ok {
			t.Errorf("Expected dataset for key %s", k)
			continue
		}
		if !json.Valid(data) {
			t.Errorf("Expected valid JSON for key %s", k)
		}
	}
}

func TestLookup_UnknownKey(t *testing.T) {
	data, ok := Lookup(Key("no-such-dataset"))
	if ok {
		t.Error("Expected lookup miss for unknown key")
	}
	if data != nil {
		t.Errorf("Expected nil data on miss, got %s", data)
	}
}

func TestLookup_StatisticsValues(t *testing.T) {
	data, ok := Lookup(KeyStatistics)
	if !ok {
		t.Fatal("Expected statistics dataset")
	}

	var stats struct {
		OngoingActivities int `json:"ongoingActivities"`
		TotalUsers        int `json:"totalUsers"`
		ActiveUsers       int `json:"activeUsers"`
		TotalActivities   int `json:"totalActivities"`
		PendingClubs      int `json:"pendingClubs"`
		TotalClubs        int `json:"totalClubs"`
	}
	if err := json.Unmarshal(data, &stats); err != nil {
		t.Fatalf("Decode statistics failed: %v", err)
	}

	if stats.TotalUsers != 6 {
		t.Errorf("Expected totalUsers 6, got %d", stats.TotalUsers)
	}
	if stats.OngoingActivities != 2 {
		t.Errorf("Expected ongoingActivities 2, got %d", stats.OngoingActivities)
	}
	if stats.TotalClubs != 2 {
		t.Errorf("Expected totalClubs 2, got %d", stats.TotalClubs)
	}
}

func TestLookup_ListDatasetsAreArrays(t *testing.T) {
	cases := []struct {
		key     Key
		minRows int
	}{
		{KeyLogs, 10},
		{KeyUsers, 6},
		{KeyLeaderboard, 4},
		{KeyRecommendations, 3},
	}

	for _, tc := range cases {
		data, ok := Lookup(tc.key)
		if !ok {
			t.Errorf("Expected dataset for key %s", tc.key)
			continue
		}

		var rows []json.RawMessage
		if err := json.Unmarshal(data, &rows); err != nil {
			t.Errorf("Decode %s failed: %v", tc.key, err)
			continue
		}
		if len(rows) < tc.minRows {
			t.Errorf("Expected at least %d rows for %s, got %d", tc.minRows, tc.key, len(rows))
		}
	}
}

func TestLookup_ReturnsCopy(t *testing.T) {
	first, _ := Lookup(KeyStatistics)
	for i := range first {
		first[i] = 'x'
	}

	second, _ := Lookup(KeyStatistics)
	if !json.Valid(second) {
		t.Error("Expected dataset to be unaffected by caller mutation")
	}
}
