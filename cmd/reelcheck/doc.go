// Command reelcheck downloads Instagram reels, transcribes their audio, and
// fact-checks the transcript with an LLM.
//
// Results are stored in a local SQLite database so repeat checks are
// instant and follow-up questions can be asked with the chat command.
package main
