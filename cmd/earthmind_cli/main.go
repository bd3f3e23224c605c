package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/earthmind-network/earthmind-go/contract"
)

const (
	flagListenAddr = "listen_addr"
)

func init() {
	rootCmd.PersistentFlags().String(flagListenAddr, "localhost:8080", "Listen Address")
}

var rootCmd = &cobra.Command{
	Use:   "earthmind_cli",
	Short: "earthmind governance node cli utilities implementation",
}

func main() {
	rootCmd.AddCommand(
		registerMinerCommand(),
		registerValidatorCommand(),
		registerProtocolCommand(),
		isMinerRegisteredCommand(),
		isValidatorRegisteredCommand(),
		isAccountRegisteredCommand(),
		requestGovernanceDecisionCommand(),
		getRequestCommand(),
		hashMinerAnswerCommand(),
		hashValidatorAnswerCommand(),
		commitByMinerCommand(),
		commitByValidatorCommand(),
		revealByMinerCommand(),
		revealByValidatorCommand(),
		votesForMinerCommand(),
		getTopTenVotersCommand(),
		getRevealedMinersCommand(),
	)
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Failed to execute root command: %v", err)
	}
}

func rawGetRequest(url string, response interface{}) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to do GET request: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	if err = json.Unmarshal(responseBody, response); err != nil {
		return fmt.Errorf("failed to unmarshal response: %v", err)
	}
	return nil
}

func rawPostRequest(url string, request interface{}, response interface{}) error {
	requestBody, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(requestBody))
	if err != nil {
		return fmt.Errorf("failed to do POST request: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	if err = json.Unmarshal(responseBody, response); err != nil {
		return fmt.Errorf("failed to unmarshal response: %v", err)
	}
	return nil
}

func printResult(result string) {
	switch result {
	case string(contract.RegisterSuccess):
		color.Green("%s", result)
	case string(contract.ActionFail):
		color.Red("%s", result)
	default:
		fmt.Println(result)
	}
}

func parseDeposit(raw string) (uint64, error) {
	deposit, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse deposit: %w", err)
	}
	return deposit, nil
}

type registerForm struct {
	Account string `json:"account"`
	Deposit uint64 `json:"deposit"`
}

func registerCommand(use, short, endpoint string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Args:  cobra.ExactArgs(2),
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}
			deposit, err := parseDeposit(args[1])
			if err != nil {
				return err
			}

			var response StringResponse
			if err := rawPostRequest(fmt.Sprintf("http://%s/%s", listenAddr, endpoint),
				&registerForm{Account: args[0], Deposit: deposit}, &response); err != nil {
				return fmt.Errorf("failed to %s: %w", endpoint, err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to %s: %s", endpoint, response.ErrorMessage)
			}
			printResult(response.Result)
			return nil
		},
	}
}

func registerMinerCommand() *cobra.Command {
	return registerCommand(
		"register_miner [account] [deposit]",
		"registers a miner with the attached deposit",
		"registerMiner",
	)
}

func registerValidatorCommand() *cobra.Command {
	return registerCommand(
		"register_validator [account] [deposit]",
		"registers a validator with the attached deposit",
		"registerValidator",
	)
}

func registerProtocolCommand() *cobra.Command {
	return registerCommand(
		"register_protocol [account] [deposit]",
		"registers a protocol account with the attached deposit",
		"registerProtocol",
	)
}

func isRegisteredCommand(use, short, endpoint string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Args:  cobra.ExactArgs(1),
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			var response BoolResponse
			requestURL := fmt.Sprintf("http://%s/%s?account=%s", listenAddr, endpoint, url.QueryEscape(args[0]))
			if err := rawGetRequest(requestURL, &response); err != nil {
				return fmt.Errorf("failed to %s: %w", endpoint, err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to %s: %s", endpoint, response.ErrorMessage)
			}
			fmt.Println(response.Result)
			return nil
		},
	}
}

func isMinerRegisteredCommand() *cobra.Command {
	return isRegisteredCommand(
		"is_miner_registered [account]",
		"returns true if the account is a registered miner",
		"isMinerRegistered",
	)
}

func isValidatorRegisteredCommand() *cobra.Command {
	return isRegisteredCommand(
		"is_validator_registered [account]",
		"returns true if the account is a registered validator",
		"isValidatorRegistered",
	)
}

func isAccountRegisteredCommand() *cobra.Command {
	return isRegisteredCommand(
		"is_account_registered [account]",
		"returns true if the account is registered in any role",
		"isAccountRegistered",
	)
}

func requestGovernanceDecisionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "request_governance_decision [sender] [deposit] [message]",
		Args:  cobra.ExactArgs(3),
		Short: "opens a new governance request for the given message",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}
			deposit, err := parseDeposit(args[1])
			if err != nil {
				return err
			}

			form := map[string]interface{}{
				"sender":  args[0],
				"deposit": deposit,
				"message": args[2],
			}
			var response StringResponse
			if err := rawPostRequest(fmt.Sprintf("http://%s/requestGovernanceDecision", listenAddr),
				form, &response); err != nil {
				return fmt.Errorf("failed to request governance decision: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to request governance decision: %s", response.ErrorMessage)
			}
			printResult(response.Result)
			fmt.Printf("Request ID: %s\n", contract.RequestIDFromMessage(args[2]))
			return nil
		},
	}
}

func getRequestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get_request [requestID]",
		Args:  cobra.ExactArgs(1),
		Short: "returns the governance request with the given id",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			var response RequestResponse
			requestURL := fmt.Sprintf("http://%s/getRequestById?requestID=%s", listenAddr, url.QueryEscape(args[0]))
			if err := rawGetRequest(requestURL, &response); err != nil {
				return fmt.Errorf("failed to get request: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to get request: %s", response.ErrorMessage)
			}

			request := response.Result
			fmt.Printf("Request ID: %s\n", request.RequestID)
			fmt.Printf("Sender: %s\n", request.Sender)
			fmt.Printf("Start time: %d\n", request.StartTime)
			fmt.Printf("Miner proposals: %d\n", len(request.MinersProposals))
			fmt.Printf("Validator proposals: %d\n", len(request.ValidatorsProposals))
			return nil
		},
	}
}

func hashMinerAnswerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash_miner_answer [account] [requestID] [answer] [message]",
		Args:  cobra.ExactArgs(4),
		Short: "returns the commitment hash for a miner answer",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}
			answer, err := strconv.ParseBool(args[2])
			if err != nil {
				return fmt.Errorf("failed to parse answer: %w", err)
			}

			form := map[string]interface{}{
				"account":    args[0],
				"request_id": args[1],
				"answer":     answer,
				"message":    args[3],
			}
			var response StringResponse
			if err := rawPostRequest(fmt.Sprintf("http://%s/hashMinerAnswer", listenAddr),
				form, &response); err != nil {
				return fmt.Errorf("failed to hash miner answer: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to hash miner answer: %s", response.ErrorMessage)
			}
			fmt.Println(response.Result)
			return nil
		},
	}
}

func hashValidatorAnswerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash_validator_answer [account] [requestID] [message] [miner]...",
		Args:  cobra.MinimumNArgs(4),
		Short: "returns the commitment hash for a validator ranking",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			form := map[string]interface{}{
				"account":    args[0],
				"request_id": args[1],
				"message":    args[2],
				"answer":     args[3:],
			}
			var response StringResponse
			if err := rawPostRequest(fmt.Sprintf("http://%s/hashValidatorAnswer", listenAddr),
				form, &response); err != nil {
				return fmt.Errorf("failed to hash validator answer: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to hash validator answer: %s", response.ErrorMessage)
			}
			fmt.Println(response.Result)
			return nil
		},
	}
}

func commitCommand(use, short, endpoint string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Args:  cobra.ExactArgs(3),
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			form := map[string]interface{}{
				"account":     args[0],
				"request_id":  args[1],
				"answer_hash": args[2],
			}
			var response StringResponse
			if err := rawPostRequest(fmt.Sprintf("http://%s/%s", listenAddr, endpoint),
				form, &response); err != nil {
				return fmt.Errorf("failed to %s: %w", endpoint, err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to %s: %s", endpoint, response.ErrorMessage)
			}
			printResult(response.Result)
			return nil
		},
	}
}

func commitByMinerCommand() *cobra.Command {
	return commitCommand(
		"commit_by_miner [account] [requestID] [answerHash]",
		"commits a miner answer hash for the request",
		"commitByMiner",
	)
}

func commitByValidatorCommand() *cobra.Command {
	return commitCommand(
		"commit_by_validator [account] [requestID] [answerHash]",
		"commits a validator answer hash for the request",
		"commitByValidator",
	)
}

func revealByMinerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reveal_by_miner [account] [requestID] [answer] [message]",
		Args:  cobra.ExactArgs(4),
		Short: "reveals a previously committed miner answer",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}
			answer, err := strconv.ParseBool(args[2])
			if err != nil {
				return fmt.Errorf("failed to parse answer: %w", err)
			}

			form := map[string]interface{}{
				"account":    args[0],
				"request_id": args[1],
				"answer":     answer,
				"message":    args[3],
			}
			var response StringResponse
			if err := rawPostRequest(fmt.Sprintf("http://%s/revealByMiner", listenAddr),
				form, &response); err != nil {
				return fmt.Errorf("failed to reveal by miner: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to reveal by miner: %s", response.ErrorMessage)
			}
			printResult(response.Result)
			return nil
		},
	}
}

func revealByValidatorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reveal_by_validator [account] [requestID] [message] [miner]...",
		Args:  cobra.MinimumNArgs(4),
		Short: "reveals a previously committed validator ranking",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			form := map[string]interface{}{
				"account":    args[0],
				"request_id": args[1],
				"message":    args[2],
				"answer":     args[3:],
			}
			var response StringResponse
			if err := rawPostRequest(fmt.Sprintf("http://%s/revealByValidator", listenAddr),
				form, &response); err != nil {
				return fmt.Errorf("failed to reveal by validator: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to reveal by validator: %s", response.ErrorMessage)
			}
			printResult(response.Result)
			return nil
		},
	}
}

func votesForMinerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "votes_for_miner [requestID] [miner]",
		Args:  cobra.ExactArgs(2),
		Short: "returns the number of validator votes for the miner",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			var response VotesResponse
			requestURL := fmt.Sprintf("http://%s/votesForMiner?requestID=%s&miner=%s",
				listenAddr, url.QueryEscape(args[0]), url.QueryEscape(args[1]))
			if err := rawGetRequest(requestURL, &response); err != nil {
				return fmt.Errorf("failed to get votes: %w", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to get votes: %s", response.ErrorMessage)
			}
			fmt.Printf("%s: %d votes\n", args[1], response.Result)
			return nil
		},
	}
}

func accountListCommand(use, short, endpoint string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Args:  cobra.ExactArgs(1),
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			var response AccountListResponse
			requestURL := fmt.Sprintf("http://%s/%s?requestID=%s", listenAddr, endpoint, url.QueryEscape(args[0]))
			if err := rawGetRequest(requestURL, &response); err != nil {
				return fmt.Errorf("failed to %s: %w", endpoint, err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to %s: %s", endpoint, response.ErrorMessage)
			}
			for _, account := range response.Result {
				fmt.Println(account)
			}
			return nil
		},
	}
}

func getTopTenVotersCommand() *cobra.Command {
	return accountListCommand(
		"get_top_ten_voters [requestID]",
		"returns the top ten miners by validator votes",
		"getTopTenVoters",
	)
}

func getRevealedMinersCommand() *cobra.Command {
	return accountListCommand(
		"get_revealed_miners [requestID]",
		"returns the miners that both committed and revealed for the request",
		"getMinersThatCommitAndReveal",
	)
}
