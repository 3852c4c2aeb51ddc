package commands

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/wanderparty/huntbot/huntbot"
	"github.com/wanderparty/huntbot/huntbot/config"
	"github.com/wanderparty/huntbot/huntbot/game"
	"github.com/wanderparty/huntbot/huntbot/utils"
)

var Submit = discord.SlashCommandCreate{
	Name:        "submit",
	Description: "Submit an answer for your current clue or a side quest",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "answer",
			Description: "Your answer text",
			Required:    false,
		},
		discord.ApplicationCommandOptionString{
			Name:        "side_quest",
			Description: "Side quest id from /sidequests (leave empty for your current clue)",
			Required:    false,
		},
		discord.ApplicationCommandOptionAttachment{
			Name:        "media",
			Description: "Photo or video proof",
			Required:    false,
		},
		discord.ApplicationCommandOptionAttachment{
			Name:        "media2",
			Description: "Additional photo or video",
			Required:    false,
		},
	},
}

func SubmitHandler(b *huntbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		team, err := resolveTeam(ctx, b, e)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, err.Error())
		}

		progress, err := b.ProgressRepository.GetProgress(ctx, team.ID)
		if err != nil {
			return utils.EH.CreateError(e, "Lookup failed", err.Error())
		}
		if progress == nil {
			return utils.EH.CreateErrorEmbed(e, "Your team hasn't joined the hunt yet, use /join")
		}

		data := e.SlashCommandInteractionData()
		clueID := data.String("side_quest")
		if clueID == "" {
			clueID = progress.CurrentClueID
		}
		if clueID == "" {
			return utils.EH.CreateErrorEmbed(e, "No clue to submit against")
		}

		// Uploads can outlive the 3s interaction window.
		if err := e.DeferCreateMessage(false); err != nil {
			return fmt.Errorf("failed to defer message: %w", err)
		}

		var mediaURLs []string
		for _, opt := range []string{"media", "media2"} {
			attachment, ok := data.OptAttachment(opt)
			if !ok {
				continue
			}
			if attachment.Size > config.MaxMediaSize {
				return utils.EH.UpdateInteractionResponse(e, "Upload too large",
					fmt.Sprintf("%s exceeds the %dMB limit", attachment.Filename, config.MaxMediaSize/(1024*1024)))
			}
			url, err := reuploadAttachment(ctx, b, team.HuntID, team.ID, attachment)
			if err != nil {
				return utils.EH.UpdateInteractionResponse(e, "Upload failed", err.Error())
			}
			mediaURLs = append(mediaURLs, url)
		}

		result, err := b.Engine.SubmitAnswer(ctx, team.ID, game.Submission{
			Answer:    data.String("answer"),
			HuntID:    team.HuntID,
			ClueID:    clueID,
			MediaURLs: mediaURLs,
		})
		if err != nil {
			switch {
			case game.IsValidation(err), game.IsInvalidState(err), game.IsNotFound(err):
				return utils.EH.UpdateInteractionResponse(e, "Submission rejected", err.Error())
			default:
				return utils.EH.UpdateInteractionResponse(e, "Submission failed", "Something went wrong, try again")
			}
		}

		return respondWithResult(e, team.Name, result)
	}
}

// reuploadAttachment copies a Discord attachment into the media bucket so
// the submission log outlives Discord's CDN expiry.
func reuploadAttachment(ctx context.Context, b *huntbot.Bot, huntID, teamID string, attachment discord.Attachment) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, attachment.URL, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch attachment: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch attachment: status %d", resp.StatusCode)
	}

	contentType := ""
	if attachment.ContentType != nil {
		contentType = *attachment.ContentType
	}
	return b.MediaService.UploadSubmissionMedia(ctx, huntID, teamID, attachment.Filename, contentType, resp.Body)
}

func respondWithResult(e *handler.CommandEvent, teamName string, result *game.Result) error {
	if !result.Correct {
		_, err := e.UpdateInteractionResponse(discord.MessageUpdate{
			Embeds: &[]discord.Embed{{
				Description: "❌ Not quite, try again!",
				Color:       config.WarningColor,
			}},
		})
		return err
	}

	if result.HuntCompleted {
		_, err := e.UpdateInteractionResponse(discord.MessageUpdate{
			Embeds: &[]discord.Embed{{
				Title:       "🏁 Hunt complete!",
				Description: fmt.Sprintf("Team **%s** has finished the hunt. Congratulations!", teamName),
				Color:       config.SuccessColor,
			}},
		})
		return err
	}

	embeds := []discord.Embed{{
		Description: "✅ Correct!",
		Color:       config.SuccessColor,
	}}
	if result.NextClue != nil {
		embeds = append(embeds, buildClueEmbed(teamName, result.NextClue))
	}
	_, err := e.UpdateInteractionResponse(discord.MessageUpdate{Embeds: &embeds})
	return err
}
