package stats

import (
	"context"

	"github.com/corey/chatstat/internal/domain/category"
	"github.com/corey/chatstat/internal/domain/text"
	"github.com/corey/chatstat/internal/ports"
)

// Observe applies one message to its sender and to the group aggregate.
// It never fails: system messages are skipped and data-shape problems are
// absorbed with defaults.
//
// Update order:
//  1. message_count += 1, daily_messages[date] += 1
//  2. media → media_count += 1
//  3. reactions (if counted) → reactor.reactions_given, sender.reactions_received,
//     group reaction histogram
//  4. no text → stop
//  5. normalize; write the transcript line from the pre-suppression text
//  6. loud message (whole pre-fold text uppercase), loud words (per token)
//  7. tokenize → word_counter, word_count, letter_count
//  8. sentiment (if a scorer is wired)
//  9. append normalized text + sentinel to the category buffer
func (c *Collector) Observe(ctx context.Context, msg *ports.Message) {
	if msg.IsSystem() {
		c.cfg.Metrics.MessageSkipped()
		if msg != nil {
			c.log.Debug().Int64("message_id", msg.ID).Msg("skipping system message")
		}
		return
	}
	c.cfg.Metrics.MessageObserved()

	e := c.entity(msg.Sender.ID)
	if e.Name == "" {
		e.Name = msg.Sender.DisplayName()
	}
	user, group := e.Acc, c.group.Acc

	// 1. Message and daily counters
	day := msg.Date.In(c.cfg.Location).Format(DateLayout)
	for _, a := range [...]*Accumulator{user, group} {
		a.MessageCount++
		a.DailyMessages.Add(day, 1)
	}

	// 2. Media
	if msg.Media {
		user.MediaCount++
		group.MediaCount++
	}

	// 3. Reactions
	if c.cfg.CountReactions && len(msg.Reactions) > 0 {
		c.observeReactions(e, msg.Reactions)
	}

	// 4. Text-less messages end here
	if msg.Text == "" {
		return
	}

	// 5. Normalize + transcript
	norm := c.cfg.Normalizer.Normalize(msg.Text)
	if c.cfg.Transcript != nil && !c.transcriptFailed {
		if err := c.cfg.Transcript.WriteLine(msg.Date.In(c.cfg.Location), e.Name, norm.Raw); err != nil {
			c.transcriptFailed = true
			c.log.Warn().Err(err).Msg("transcript disabled for the rest of the run")
		}
	}

	// 6. Loudness, evaluated before case folding
	loudWords := c.cfg.Tokenizer.LoudWords(norm.Cased)
	loudMessage := text.IsLoud(norm.Cased)
	for _, a := range [...]*Accumulator{user, group} {
		a.LoudWordCount += loudWords
		if loudMessage {
			a.LoudMessageCount++
		}
	}

	// 7. Words and letters
	tok := c.cfg.Tokenizer.Tokenize(norm.Text)
	for _, a := range [...]*Accumulator{user, group} {
		a.WordCount += len(tok.Words)
		a.LetterCount += tok.Letters
		for _, w := range tok.Display {
			a.WordCounter.Add(w, 1)
		}
	}

	// 8. Sentiment
	if c.cfg.Scorer != nil {
		score, err := c.cfg.Scorer.Score(ctx, norm.Raw)
		if err != nil {
			c.cfg.Metrics.SentimentFailed()
			c.log.Warn().Err(err).Int64("message_id", msg.ID).Msg("sentiment scoring failed")
		} else {
			for _, a := range [...]*Accumulator{user, group} {
				a.SentimentSum += score
				a.SentimentCount++
			}
		}
	}

	// 9. Category buffer
	user.text = append(user.text, norm.Text...)
	user.text = append(user.text, category.Sentinel...)
}

// observeReactions credits each reaction to its reactor (created on demand),
// the message sender and the group histogram. Anonymous reactions (reactor
// id 0) only count as received.
func (c *Collector) observeReactions(sender *Entity, reactions []ports.Reaction) {
	n := 0
	for _, r := range reactions {
		if r.Emoji == "" {
			continue
		}
		w := r.Weight()
		if r.UserID != 0 {
			reactor := c.entity(r.UserID)
			reactor.Acc.ReactionsGiven.Add(r.Emoji, w)
			reactor.Acc.ReactionsGivenCount += w
			c.group.Acc.ReactionsGivenCount += w
		}
		sender.Acc.ReactionsReceived.Add(r.Emoji, w)
		sender.Acc.ReactionsReceivedCount += w
		c.group.Acc.ReactionsReceived.Add(r.Emoji, w)
		c.group.Acc.ReactionsReceivedCount += w
		n += w
	}
	c.cfg.Metrics.ReactionsCounted(n)
}
