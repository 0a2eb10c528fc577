// Package resumerank provides an embedded Go client for the resumerank
// matching engine backed by Redis with the JSON module.
//
// The client wires the full processing pipeline — text extraction,
// embedding, scoring and persistence — into a single process, without
// running the HTTP API:
//
//	client, _ := resumerank.New(ctx,
//	    resumerank.WithRedis("localhost:6379", ""),
//	    resumerank.WithEmbedder(myEmbedder),
//	)
//	defer client.Close()
//
//	results, _ := client.Candidates().Upload(ctx, []resumerank.UploadFile{
//	    {Filename: "resume.pdf", MediaType: "application/pdf", Data: pdfBytes},
//	})
//	analysis, _ := client.Analyses().Run(ctx, resumerank.JobRequest{
//	    Title:       "Backend Engineer",
//	    Description: "Go, Redis, distributed systems",
//	})
//
// All data is scoped to a principal (see WithPrincipal); two clients with
// different principals never see each other's documents.
package resumerank
