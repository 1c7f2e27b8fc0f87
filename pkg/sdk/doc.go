// Package gqlframes provides an embeddable client that queries a GraphQL
// endpoint and reshapes the JSON response into typed, grouped data frames
// and annotation events.
//
//	client, _ := gqlframes.New("https://api.example.com/graphql",
//	    gqlframes.WithBasicAuth("Basic dXNlcjpwYXNz"),
//	    gqlframes.WithVariables(map[string]string{"env": "prod"}),
//	)
//	frames, _ := client.Query(ctx, gqlframes.QueryRequest{
//	    Range: &gqlframes.TimeRange{From: from, To: to},
//	    Targets: []gqlframes.Query{{
//	        RefID:     "A",
//	        QueryText: `{ metrics(from: $timeFrom, to: $timeTo) { Time region value } }`,
//	        DataPath:  "data.metrics",
//	        GroupBy:   "region",
//	        AliasBy:   "$field_region $fieldName",
//	    }},
//	})
//
// Each frame is one series: documents sharing the group-by values land in
// the same frame, and its columns are fixed by the first document seen.
package gqlframes
