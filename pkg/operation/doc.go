/*
Package operation runs one processing job from source string to written output.

	+-------------+
	|   Resolve   |
	| (SourceSpec)|
	+------+------+
	       |
	+------+------+
	|   Collect   |
	|   (Items)   |
	+------+------+
	       |
	+------+------+
	|   Process   |
	|  (Records)  |
	+------+------+
	       |
	+------+------+
	|    Write    |
	|  (Output)   |
	+-------------+

🎯 Purpose:
- Resolves the source once, at the start of the run
- Owns the temporary workspace and releases it on every exit path
- Feeds collected items to the processor and records to the writer

🔄 Flow:
1. Optional pre-flight check of the model service
2. source.Resolve classifies the raw source string
3. collect.ForSpec gathers items, materializing remote data in the workspace
4. processor.Process calls the model for each item in order
5. output.Writer receives each record, then the run metadata

⚡ Key Responsibilities:
- Fatal vs recoverable error boundaries
- Run metadata (run id, counts, timestamps)
- Signal handling through Runner

🔍 Example:

	job, err := operation.New(operation.Options{Config: cfg, Source: "./docs", Client: client, Writer: w})
	res, err := job.Run(ctx)
*/
package operation
